package testing

import (
	"testing"

	"github.com/go-redul/redul/pkg/core"
	"github.com/go-redul/redul/pkg/host/memhost"
)

func renderList(t *testing.T) *Tester {
	tester := NewTesterWithT(t)
	tester.Render(core.CreateElement("ul", core.Props{"id": "list"},
		core.CreateElement("li", core.Props{"className": "item"}, "apple"),
		core.CreateElement("li", core.Props{"className": "item"}, "banana"),
		core.CreateElement("li", core.Props{"className": "item done"}, "cherry"),
	))
	return tester
}

func TestByTag(t *testing.T) {
	tester := renderList(t)

	result := tester.Find(ByTag("li"))
	if result.Count() != 3 {
		t.Fatalf("expected 3 items, got %d", result.Count())
	}
	if got := result.At(1).TextContent(); got != "banana" {
		t.Errorf("second item = %q, want banana", got)
	}
}

func TestByText(t *testing.T) {
	tester := renderList(t)

	if !tester.Find(ByText("apple")).Exists() {
		t.Error("expected to find text 'apple'")
	}
	if tester.Find(ByText("app")).Exists() {
		t.Error("ByText should match the whole text only")
	}
}

func TestByTextContaining(t *testing.T) {
	tester := renderList(t)

	// The ul matches too, since its text contains every item.
	if got := tester.Find(ByTextContaining("an")).Count(); got != 2 {
		t.Errorf("expected 2 matches, got %d", got)
	}
	if tester.Find(ByTextContaining("kiwi")).Exists() {
		t.Error("should not find text containing 'kiwi'")
	}
}

func TestByAttrAndID(t *testing.T) {
	tester := renderList(t)

	if got := tester.Find(ByAttr("class", "item done")).First().TextContent(); got != "cherry" {
		t.Errorf("ByAttr matched %q, want cherry", got)
	}
	if got := tester.Find(ByID("list")).First().Tag; got != "ul" {
		t.Errorf("ByID matched %q, want ul", got)
	}
}

func TestByPredicate(t *testing.T) {
	tester := renderList(t)

	long := ByPredicate("long items", func(n *memhost.Node) bool {
		return n.Tag == "li" && len(n.TextContent()) > 5
	})
	result := tester.Find(long)
	if result.Count() != 2 {
		t.Errorf("expected 2 long items, got %d", result.Count())
	}
	if long.Description() != "long items" {
		t.Errorf("Description() = %q", long.Description())
	}
}

func TestFinderResult_FirstOrNil(t *testing.T) {
	tester := renderList(t)

	if tester.Find(ByTag("table")).FirstOrNil() != nil {
		t.Error("expected nil for no matches")
	}
	if tester.Find(ByTag("ul")).FirstOrNil() == nil {
		t.Error("expected a node for ul")
	}
}

func TestFinderResult_First_PanicsOnEmpty(t *testing.T) {
	tester := renderList(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for First() on empty result")
		}
	}()
	tester.Find(ByTag("table")).First()
}

func TestFinderResult_AtOutOfRange(t *testing.T) {
	tester := renderList(t)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for At() out of range")
		}
	}()
	tester.Find(ByTag("li")).At(3)
}
