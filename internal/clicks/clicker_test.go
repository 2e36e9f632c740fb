package clicks

import "testing"

func TestSingleDispatchesAfterWindowExpires(t *testing.T) {
	var c Clicker
	now := uint32(0)
	if e := c.Tick(now, true); e != None {
		t.Fatalf("expected no event on initial press, got %v", e)
	}
	now += 10
	c.Tick(now, false) // release
	now += windowMs + 1
	if e := c.Tick(now, false); e != Single {
		t.Fatalf("expected Single after window expiry, got %v", e)
	}
}

func TestDoubleFiresOnSecondRisingEdgeWithinWindow(t *testing.T) {
	var c Clicker
	now := uint32(0)
	c.Tick(now, true)
	now += 10
	c.Tick(now, false)
	now += 50
	if e := c.Tick(now, true); e != Double {
		t.Fatalf("expected Double on second press within window, got %v", e)
	}
}

func TestNoDoubleAfterWindowExpires(t *testing.T) {
	var c Clicker
	now := uint32(0)
	c.Tick(now, true)
	now += 10
	c.Tick(now, false)
	now += windowMs + 10
	c.Tick(now, false) // drains the deferred Single
	if e := c.Tick(now, true); e != None {
		t.Fatalf("fresh press after a dispatched single must not retroactively become Double, got %v", e)
	}
}
