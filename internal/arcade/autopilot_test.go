package arcade

import "testing"

func kiteSnapshot(items ...Item) Snapshot {
	return Snapshot{
		Kite:    Rect{X: 174, Y: 610, W: KiteWidth, H: KiteHeight},
		Items:   items,
		Running: true,
	}
}

func TestAutopilot_ChasesLowestGood(t *testing.T) {
	sn := kiteSnapshot(
		Item{Kind: KindGood, X: 300, Y: 100, W: GoodWidth, H: GoodHeight},
		Item{Kind: KindGood, X: 10, Y: 400, W: GoodWidth, H: GoodHeight},
	)
	if got := DefaultAutopilot().Steer(sn); got != HoldLeft {
		t.Fatalf("expected HoldLeft toward the lower item, got %v", got)
	}
}

func TestAutopilot_HoldsWhenAligned(t *testing.T) {
	sn := kiteSnapshot(Item{Kind: KindGood, X: 174 + 36 - 22, Y: 300, W: GoodWidth, H: GoodHeight})
	if got := DefaultAutopilot().Steer(sn); got != 0 {
		t.Fatalf("expected no input when aligned, got %v", got)
	}
}

func TestAutopilot_SidestepsCloud(t *testing.T) {
	sn := kiteSnapshot(
		Item{Kind: KindCloud, X: 200, Y: 540, W: CloudWidth, H: CloudHeight},
		Item{Kind: KindGood, X: 300, Y: 300, W: GoodWidth, H: GoodHeight},
	)
	if got := DefaultAutopilot().Steer(sn); got != HoldLeft {
		t.Fatalf("expected HoldLeft away from the cloud, got %v", got)
	}
}

func TestAutopilot_IgnoresItemsBelowKite(t *testing.T) {
	sn := kiteSnapshot(Item{Kind: KindGood, X: 10, Y: 705, W: GoodWidth, H: GoodHeight})
	if got := DefaultAutopilot().Steer(sn); got != 0 {
		t.Fatalf("item below the kite should be ignored, got %v", got)
	}
}
