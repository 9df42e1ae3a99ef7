// Package testing provides a component testing harness for redul.
//
// # Quick Start
//
// Create a tester, render an element, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := redultest.NewTesterWithT(t)
//	    tester.Render(core.CreateElement(Counter, nil))
//
//	    if err := tester.Click(redultest.ByTag("button")); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    if !tester.Find(redultest.ByText("1")).Exists() {
//	        t.Errorf("unexpected tree %s", tester.HTML())
//	    }
//	}
//
// # Scheduling
//
// The tester runs the scheduler on a FakeHost. Render and Click pump
// until no host callback is pending. Delayed tasks need the clock to move:
//
//	tester.Clock().Advance(100 * time.Millisecond)
//	tester.PumpAndSettle(time.Second)
//
// FakeHost.SetShouldYield makes every unit of work yield, which lets a test
// interleave updates with a generation in progress.
//
// # Snapshot Testing
//
// Capture and compare host tree snapshots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	REDUL_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import redultest "github.com/go-redul/redul/pkg/testing"
package testing
