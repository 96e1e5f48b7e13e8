package votable

import "testing"

func TestApplyToggleSequence(t *testing.T) {
	var record Votable

	if changed := record.Apply("user-a", DirectionUp); !changed {
		t.Fatalf("expected first upvote to change the record")
	}
	if record.Score() != 1 {
		t.Fatalf("expected score 1 after upvote, got %d", record.Score())
	}

	if changed := record.Apply("user-a", DirectionDown); !changed {
		t.Fatalf("expected direction flip to change the record")
	}
	if record.Score() != -1 {
		t.Fatalf("expected score -1 after flip, got %d", record.Score())
	}
	if record.HasUpvoted("user-a") {
		t.Fatalf("voter must not remain in upvoters after flip")
	}
	if !record.HasDownvoted("user-a") {
		t.Fatalf("voter must be in downvoters after flip")
	}

	if changed := record.Apply("user-a", DirectionDown); changed {
		t.Fatalf("repeat vote in same direction must be a no-op")
	}
	if record.Score() != -1 {
		t.Fatalf("expected score to stay -1, got %d", record.Score())
	}
}

func TestApplyKeepsVoterInAtMostOneSet(t *testing.T) {
	var record Votable
	sequence := []Direction{DirectionUp, DirectionUp, DirectionDown, DirectionUp, DirectionDown, DirectionDown}

	for i, direction := range sequence {
		record.Apply("voter-1", direction)
		if record.HasUpvoted("voter-1") && record.HasDownvoted("voter-1") {
			t.Fatalf("step %d: voter present in both sets", i)
		}
		if !record.HasUpvoted("voter-1") && !record.HasDownvoted("voter-1") {
			t.Fatalf("step %d: voter vanished from both sets", i)
		}
		expectUp := direction == DirectionUp
		if record.HasUpvoted("voter-1") != expectUp {
			t.Fatalf("step %d: final direction mismatch", i)
		}
	}
}

func TestApplyIndependentVoters(t *testing.T) {
	var record Votable
	record.Apply("voter-1", DirectionUp)
	record.Apply("voter-2", DirectionUp)
	record.Apply("voter-3", DirectionDown)

	if record.Score() != 1 {
		t.Fatalf("expected score 1, got %d", record.Score())
	}
	record.Apply("voter-2", DirectionDown)
	if record.Score() != -1 {
		t.Fatalf("expected score -1 after voter-2 flip, got %d", record.Score())
	}
}

func TestApplyRejectsBlankVoterAndUnknownDirection(t *testing.T) {
	var record Votable
	if record.Apply("  ", DirectionUp) {
		t.Fatalf("blank voter must be rejected")
	}
	if record.Apply("voter-1", Direction("sideways")) {
		t.Fatalf("unknown direction must be rejected")
	}
	if len(record.Upvoters) != 0 || len(record.Downvoters) != 0 {
		t.Fatalf("record must stay empty")
	}
}

func TestParseDirection(t *testing.T) {
	cases := map[string]struct {
		direction Direction
		ok        bool
	}{
		"up":       {DirectionUp, true},
		"UP":       {DirectionUp, true},
		"upvote":   {DirectionUp, true},
		"down":     {DirectionDown, true},
		"downvote": {DirectionDown, true},
		"":         {"", false},
		"left":     {"", false},
	}
	for raw, expected := range cases {
		direction, ok := ParseDirection(raw)
		if ok != expected.ok || direction != expected.direction {
			t.Fatalf("ParseDirection(%q) = (%q, %v), expected (%q, %v)", raw, direction, ok, expected.direction, expected.ok)
		}
	}
}
