package extract

// Mode selects which sentinel marks a category header.
type Mode int

const (
	ModeNominees Mode = iota
	ModeWinners
)

type scanState int

const (
	seekHeader scanState = iota
	consumeBody
)

// CategoryNominees is one category block recovered from a source page.
type CategoryNominees struct {
	Name     string   `json:"name"`
	Nominees []string `json:"nominees"`
}

// cursor walks prepared lines. Both scans share it so that "is this line a
// header" is decided in exactly one place.
type cursor struct {
	lines []string
	mode  Mode
	pos   int
	state scanState
}

func newCursor(lines []string, mode Mode) *cursor {
	return &cursor{lines: lines, mode: mode}
}

func (c *cursor) done() bool { return c.pos >= len(c.lines) }

// isHeader reports whether line i names a category: it is not a sentinel and
// the next line is the sentinel for the cursor's mode.
func (c *cursor) isHeader(i int) bool {
	if i < 0 || i+1 >= len(c.lines) {
		return false
	}
	line := c.lines[i]
	if line == "" || isSentinel(line) {
		return false
	}
	next := c.lines[i+1]
	if c.mode == ModeWinners {
		return next == SentinelWinner
	}
	return next == SentinelNominees || next == SentinelNomineesUpper
}

// skipPreamble moves past a literal "NOMINEES" marker line, if any.
func (c *cursor) skipPreamble() {
	for i, line := range c.lines {
		if line == SentinelNomineesUpper {
			c.pos = i + 1
			return
		}
	}
}

// take consumes the body line at pos together with the following line as its
// detail, unless that following line opens the next category.
func (c *cursor) take() (label, detail string) {
	label = c.lines[c.pos]
	next := c.pos + 1
	if next < len(c.lines) && !c.isHeader(next) {
		detail = c.lines[next]
		c.pos += 2
	} else {
		c.pos++
	}
	if skippable(detail) {
		detail = ""
	}
	return label, detail
}

// ScanNominees recovers every category block with its nominees. blocks counts
// the headers seen, including those whose nominees were all placeholders.
func ScanNominees(lines []string) (cats []CategoryNominees, blocks int) {
	c := newCursor(lines, ModeNominees)
	c.skipPreamble()

	index := map[string]int{}
	cur := -1
	for !c.done() {
		switch c.state {
		case seekHeader:
			if !c.isHeader(c.pos) {
				c.pos++
				continue
			}
			name := c.lines[c.pos]
			blocks++
			i, ok := index[name]
			if !ok {
				i = len(cats)
				index[name] = i
				cats = append(cats, CategoryNominees{Name: name})
			}
			cur = i
			c.pos += 2
			c.state = consumeBody

		case consumeBody:
			if c.isHeader(c.pos) {
				c.state = seekHeader
				continue
			}
			if skippable(c.lines[c.pos]) {
				c.pos++
				continue
			}
			label, detail := c.take()
			name := cats[cur].Name
			cats[cur].Nominees = append(cats[cur].Nominees, FormatDetail(name, label, detail))
		}
	}

	out := cats[:0]
	for _, cat := range cats {
		cat.Nominees = dedupe(cat.Nominees)
		if len(cat.Nominees) == 0 {
			continue
		}
		out = append(out, cat)
	}
	return out, blocks
}

// ScanWinners takes one winner per category block. When a category appears
// more than once, the first block wins.
func ScanWinners(lines []string) (winners map[string]string, blocks int) {
	c := newCursor(lines, ModeWinners)
	winners = map[string]string{}

	var name string
	for !c.done() {
		switch c.state {
		case seekHeader:
			if !c.isHeader(c.pos) {
				c.pos++
				continue
			}
			name = c.lines[c.pos]
			blocks++
			c.pos += 2
			c.state = consumeBody

		case consumeBody:
			c.state = seekHeader
			if c.isHeader(c.pos) || skippable(c.lines[c.pos]) {
				continue
			}
			label, detail := c.take()
			if _, seen := winners[name]; !seen {
				winners[name] = FormatDetail(name, label, detail)
			}
		}
	}
	return winners, blocks
}
