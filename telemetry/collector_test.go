package telemetry

import "testing"

func TestAdvanceSignalsWindowEnd(t *testing.T) {
	c := NewCollector(5)

	dt := 1.0
	for i := 0; i < 4; i++ {
		if c.Advance(dt) {
			t.Fatalf("window complete after only %d seconds", i+1)
		}
	}
	if !c.Advance(dt) {
		t.Error("window not complete after 5 seconds")
	}
	if c.SimTime() != 5 {
		t.Errorf("expected sim time 5, got %f", c.SimTime())
	}
}

func TestFlushResetsWindow(t *testing.T) {
	c := NewCollector(5)

	c.RecordPelletEaten(true)
	c.RecordPelletEaten(true)
	c.RecordPelletEaten(false)
	c.RecordBotEaten()
	c.RecordPlayerReset()
	c.RecordBounce()
	c.RecordBounce()

	for c.SimTime() < 5 {
		c.Advance(1)
	}

	stats := c.Flush(300, 280, 14, 135.5, []float64{100, 200})
	if stats.PelletsEatenPlayer != 2 || stats.PelletsEatenBots != 1 {
		t.Errorf("pellet counters wrong: %d player, %d bots", stats.PelletsEatenPlayer, stats.PelletsEatenBots)
	}
	if stats.BotsEaten != 1 || stats.PlayerResets != 1 || stats.Bounces != 2 {
		t.Errorf("event counters wrong: %d %d %d", stats.BotsEaten, stats.PlayerResets, stats.Bounces)
	}
	if stats.WindowEndTick != 300 || stats.PelletCount != 280 || stats.BotCount != 14 {
		t.Errorf("snapshot fields wrong: %d %d %d", stats.WindowEndTick, stats.PelletCount, stats.BotCount)
	}
	if stats.BotMassMean != 150 {
		t.Errorf("expected mean bot mass 150, got %f", stats.BotMassMean)
	}

	// The next window starts from zero counters but sim time carries on.
	next := c.Flush(600, 280, 14, 135.5, nil)
	if next.PelletsEatenPlayer != 0 || next.Bounces != 0 || next.PlayerResets != 0 {
		t.Error("counters not reset after flush")
	}
	if c.SimTime() != 5 {
		t.Errorf("sim time lost across flush: %f", c.SimTime())
	}
}

func TestDefaultWindowLength(t *testing.T) {
	c := NewCollector(0)
	c.Advance(4.9)
	if c.Advance(0.2) != true {
		t.Error("expected default 5 second window")
	}
}

func TestWindowElapsedResetsOnFlush(t *testing.T) {
	c := NewCollector(2)
	if !c.Advance(2) {
		t.Fatal("window should be complete")
	}
	c.Flush(1, 0, 0, 0, nil)
	if c.Advance(1) {
		t.Error("fresh window reported complete after 1 of 2 seconds")
	}
}
