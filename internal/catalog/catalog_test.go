package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(list []Summary) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Title
	}
	return out
}

func TestFilterByStatusReturnsExactSubset(t *testing.T) {
	got := Filter(Seed(), Query{Status: StatusWon})

	require.Len(t, got, 1)
	assert.Equal(t, "Mobile App Development", got[0].Title)
}

func TestFilterMatchesTitleOrClientCaseInsensitively(t *testing.T) {
	assert.Equal(t, []string{"E-commerce Platform Development"}, titles(Filter(Seed(), Query{Text: "techcorp"})))
	assert.Equal(t, []string{"Mobile App Development", "E-commerce Platform Development"}, titles(Filter(Seed(), Query{Text: "DEVELOPMENT"})))
	assert.Empty(t, Filter(Seed(), Query{Text: "nothing like this"}))
}

func TestFilterCombinesTextAndStatus(t *testing.T) {
	got := Filter(Seed(), Query{Text: "development", Status: StatusInReview})
	assert.Equal(t, []string{"E-commerce Platform Development"}, titles(got))
}

func TestSortOrders(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortRecent, []string{"Website Redesign", "Mobile App Development", "Cloud Migration Services", "Marketing Campaign Strategy", "E-commerce Platform Development"}},
		{SortName, []string{"Cloud Migration Services", "E-commerce Platform Development", "Marketing Campaign Strategy", "Mobile App Development", "Website Redesign"}},
		{SortValue, []string{"E-commerce Platform Development", "Mobile App Development", "Cloud Migration Services", "Marketing Campaign Strategy", "Website Redesign"}},
		{SortDue, []string{"E-commerce Platform Development", "Cloud Migration Services", "Marketing Campaign Strategy", "Mobile App Development", "Website Redesign"}},
		{SortProgress, []string{"Cloud Migration Services", "Mobile App Development", "Website Redesign", "E-commerce Platform Development", "Marketing Campaign Strategy"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Filter(Seed(), Query{Sort: tt.key})))
		})
	}
}

func TestSortByClientAscending(t *testing.T) {
	got := Filter(Seed(), Query{Sort: SortClient})
	clients := make([]string, len(got))
	for i, s := range got {
		clients[i] = s.Client
	}
	assert.Equal(t, []string{"Enterprise Solutions", "FinTech Startup", "Local Business", "StartupXYZ", "TechCorp Inc."}, clients)
}

func TestSortByStatusAscending(t *testing.T) {
	got := Filter(Seed(), Query{Sort: SortStatus})
	statuses := make([]Status, len(got))
	for i, s := range got {
		statuses[i] = s.Status
	}
	assert.Equal(t, []Status{StatusDraft, StatusInReview, StatusLost, StatusSent, StatusWon}, statuses)
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	list := Seed()
	Filter(list, Query{Sort: SortName})
	assert.Equal(t, Seed(), list)
}

func TestParseSortKeyFallsBackToRecent(t *testing.T) {
	assert.Equal(t, SortClient, ParseSortKey(" Client "))
	assert.Equal(t, SortRecent, ParseSortKey("bogus"))
	assert.Equal(t, SortRecent, ParseSortKey(""))
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("all")
	require.NoError(t, err)
	assert.Equal(t, Status(""), status)

	status, err = ParseStatus("In-Review")
	require.NoError(t, err)
	assert.Equal(t, StatusInReview, status)

	_, err = ParseStatus("archived")
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, int64(125000), ParseValue("$125,000"))
	assert.Equal(t, int64(0), ParseValue(""))
	assert.Equal(t, int64(0), ParseValue("TBD"))
}

func TestDuplicatePrependsDraftCopy(t *testing.T) {
	c := New(Seed(), nil)

	dup, err := c.Duplicate("4")

	require.NoError(t, err)
	assert.Equal(t, "Mobile App Development (Copy)", dup.Title)
	assert.Equal(t, StatusDraft, dup.Status)
	assert.Equal(t, 0, dup.Progress)
	assert.NotEqual(t, "4", dup.ID)
	assert.Equal(t, 6, c.Len())
	assert.Equal(t, dup, c.List(Query{})[0])
	original, err := c.Get("4")
	require.NoError(t, err)
	assert.Equal(t, StatusWon, original.Status)
}

func TestChangeStatus(t *testing.T) {
	c := New(Seed(), nil)

	updated, err := c.ChangeStatus("2", StatusWon)

	require.NoError(t, err)
	assert.Equal(t, StatusWon, updated.Status)
	assert.Equal(t, "just now", updated.LastModified)
	assert.Equal(t, 2, c.Count(StatusWon))

	_, err = c.ChangeStatus("2", Status("archived"))
	assert.Error(t, err)
}

func TestUnknownIDReturnsErrNotFound(t *testing.T) {
	c := New(Seed(), nil)

	_, err := c.Get("99")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Duplicate("99")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.ChangeStatus("99", StatusWon)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAddsNewestDraft(t *testing.T) {
	c := New(Seed(), nil)

	created := c.Create("New Proposal", "Acme")

	assert.Equal(t, 6, created.Seq)
	assert.Equal(t, created, c.List(Query{Sort: SortRecent})[0])
}
