package dieselcore

import (
	"fmt"
	"strings"
)

const tab = "    "

// summary accumulates the indented multi-line blocks written to the debug
// log after an instance or device is created.
type summary struct {
	b strings.Builder
}

func newSummary(title string) *summary {
	s := &summary{}
	s.b.WriteString(title)
	s.b.WriteString("\n\n")
	return s
}

func (s *summary) section(name string) {
	fmt.Fprintf(&s.b, "%s%s:\n", tab, name)
}

func (s *summary) field(name string, value interface{}) {
	fmt.Fprintf(&s.b, "%s- %s: %v\n", tab, name, value)
}

func (s *summary) list(name string, items []string) {
	fmt.Fprintf(&s.b, "\n%sWith %s:\n", tab, name)
	for _, item := range items {
		fmt.Fprintf(&s.b, "%s- %s\n", tab, item)
	}
}

func (s *summary) String() string {
	return s.b.String()
}

func versionString(v Version) string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}
