package catalog

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the list ordering.
type SortKey string

const (
	SortRecent   SortKey = "recent"
	SortName     SortKey = "name"
	SortClient   SortKey = "client"
	SortStatus   SortKey = "status"
	SortValue    SortKey = "value"
	SortProgress SortKey = "progress"
	SortDue      SortKey = "due"
)

// SortKeys lists every ordering, default first.
func SortKeys() []SortKey {
	return []SortKey{SortRecent, SortName, SortClient, SortStatus, SortValue, SortProgress, SortDue}
}

// ParseSortKey maps a name to its SortKey; unknown names order by recency.
func ParseSortKey(name string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range SortKeys() {
		if key == known {
			return key
		}
	}
	return SortRecent
}

// Query narrows and orders the list. The zero Query lists everything, most
// recent first.
type Query struct {
	Text   string
	Status Status
	Sort   SortKey
}

const dueLayout = "2006-01-02"

// Filter returns the rows of list matching q in q's order. list is not modified.
func Filter(list []Summary, q Query) []Summary {
	fold := cases.Fold()
	needle := fold.String(q.Text)
	out := make([]Summary, 0, len(list))
	for _, item := range list {
		if q.Status != "" && item.Status != q.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(item.Title), needle) &&
			!strings.Contains(fold.String(item.Client), needle) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, less(out, ParseSortKey(string(q.Sort))))
	return out
}

func less(items []Summary, key SortKey) func(i, j int) bool {
	switch key {
	case SortName, SortClient, SortStatus:
		col := collate.New(language.English)
		field := func(s Summary) string {
			switch key {
			case SortName:
				return s.Title
			case SortClient:
				return s.Client
			default:
				return string(s.Status)
			}
		}
		return func(i, j int) bool {
			return col.CompareString(field(items[i]), field(items[j])) < 0
		}
	case SortValue:
		return func(i, j int) bool {
			return ParseValue(items[i].Value) > ParseValue(items[j].Value)
		}
	case SortProgress:
		return func(i, j int) bool {
			return items[i].Progress > items[j].Progress
		}
	case SortDue:
		return func(i, j int) bool {
			a, aok := dueDate(items[i])
			b, bok := dueDate(items[j])
			switch {
			case aok && bok:
				return a.Before(b)
			default:
				return aok && !bok
			}
		}
	default:
		return func(i, j int) bool {
			return items[i].Seq > items[j].Seq
		}
	}
}

func dueDate(s Summary) (time.Time, bool) {
	if s.DueDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dueLayout, s.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
