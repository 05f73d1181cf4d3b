package model

import (
	"bufio"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Rule is the only rule string written to and understood from pattern headers.
const Rule = "B3/S23"

const (
	tagAlive = 'o'
	tagDead  = 'b'
	rowEnd   = '$'
	patEnd   = '!'

	// maxRun caps run counts and cursor positions so arithmetic on them
	// cannot overflow; it is far beyond any grid that fits in memory.
	maxRun = math.MaxInt / 2
)

var headerPattern = regexp.MustCompile(`^\s*x\s*=\s*(\d+)\s*,\s*y\s*=\s*(\d+)`)

// Save writes the grid in RLE format. Every row is written in full,
// including its trailing dead run.
func (g *Grid) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("x = " + strconv.Itoa(g.width) + ", y = " + strconv.Itoa(g.height) + ", rule = " + Rule + "\n")

	var buf []byte
	for y := range g.height {
		if y > 0 {
			bw.WriteString("$\n")
		}
		buf = appendRow(buf[:0], g.row(y))
		bw.Write(buf)
	}
	bw.WriteString("!\n")

	if err := bw.Flush(); err != nil {
		return wrapIO(err, "[Save] failed to write %dx%d pattern", g.width, g.height)
	}
	return nil
}

// appendRow appends the runs of a single row as <count><tag> tokens.
func appendRow(buf []byte, row []uint8) []byte {
	for x := 0; x < len(row); {
		run := 1
		for x+run < len(row) && row[x+run] == row[x] {
			run++
		}
		if run > 1 {
			buf = strconv.AppendInt(buf, int64(run), 10)
		}
		if row[x] == 1 {
			buf = append(buf, tagAlive)
		} else {
			buf = append(buf, tagDead)
		}
		x += run
	}
	return buf
}

// SaveFile writes the grid to the named file. A failure after the file was
// created may leave a truncated file behind.
func (g *Grid) SaveFile(filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return wrapIO(err, "[SaveFile] failed to create file: %+v", filename)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = wrapIO(cerr, "[SaveFile] failed to close file: %+v", filename)
		}
	}()

	if err = g.Save(f); err != nil {
		return errors.Wrapf(err, "[SaveFile] failed to write file: %+v", filename)
	}
	return nil
}

// Load reads an RLE pattern and returns a new grid holding it.
//
// Only the header is strict. The body is decoded best effort: runs that leave
// the grid are clipped, unknown characters are skipped and a missing '!'
// simply ends the pattern.
func Load(r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)

	width, height, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	g, err := NewGrid(width, height)
	if err != nil {
		return nil, errors.Wrapf(err, "[Load] failed to allocate %dx%d grid", width, height)
	}

	if err = g.decodeBody(br); err != nil {
		g.Release()
		return nil, err
	}
	return g, nil
}

// LoadFile reads an RLE pattern from the named file.
func LoadFile(filename string) (*Grid, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, wrapIO(err, "[LoadFile] failed to open file: %+v", filename)
	}
	defer f.Close()

	g, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadFile] failed to load file: %+v", filename)
	}
	return g, nil
}

// readHeader skips leading '#' comment lines and parses "x = W, y = H".
func readHeader(br *bufio.Reader) (width, height int, err error) {
	var line string
	for {
		line, err = br.ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, 0, wrapIO(err, "[Load] failed to read header")
		}
		if !strings.HasPrefix(line, "#") || err == io.EOF {
			break
		}
	}
	if strings.HasPrefix(line, "#") {
		return 0, 0, errors.Wrap(ErrFormat, "[Load] missing header")
	}

	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, errors.Wrapf(ErrFormat, "[Load] malformed header: %q", strings.TrimSpace(line))
	}
	width, werr := strconv.Atoi(m[1])
	height, herr := strconv.Atoi(m[2])
	if werr != nil || herr != nil {
		return 0, 0, errors.Wrapf(ErrFormat, "[Load] header dimensions out of range: %q", strings.TrimSpace(line))
	}
	if width == 0 || height == 0 {
		return 0, 0, errors.Wrapf(ErrFormat, "[Load] empty pattern: %dx%d", width, height)
	}
	return width, height, nil
}

// decodeBody runs the token stream into g, which must be freshly cleared.
func (g *Grid) decodeBody(br *bufio.Reader) error {
	var x, y, count int
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return wrapIO(err, "[Load] failed to read pattern body")
		}

		switch {
		case c >= '0' && c <= '9':
			if count > (maxRun-9)/10 {
				count = maxRun
			} else {
				count = count*10 + int(c-'0')
			}
		case c == tagDead:
			x = advance(x, count)
			count = 0
		case c == tagAlive:
			g.markRun(x, y, max(count, 1))
			x = advance(x, count)
			count = 0
		case c == rowEnd:
			y = advance(y, 0)
			x = 0
			count = 0
		case c == patEnd:
			return nil
		}
	}
}

// advance moves a cursor by max(count, 1), saturating at maxRun.
func advance(pos, count int) int {
	return min(pos+max(count, 1), maxRun)
}

// markRun sets n cells alive starting at (x, y), dropping any that fall
// outside the grid.
func (g *Grid) markRun(x, y, n int) {
	if y >= g.height || x >= g.width {
		return
	}
	row := g.row(y)
	for i := x; i < min(x+n, g.width); i++ {
		row[i] = 1
	}
}
