package cliq

import "testing"

func TestSlashResponseIcons(t *testing.T) {
	cases := []struct {
		kind ResponseKind
		want string
	}{
		{ResponseSuccess, "✅ Done"},
		{ResponseError, "❌ Done"},
		{ResponseInfo, "ℹ️ Done"},
	}
	for _, tc := range cases {
		msg := SlashResponse(SlashResponseParams{Kind: tc.kind, Title: "Done"})
		if msg.Text != tc.want {
			t.Errorf("kind %s: text %q, want %q", tc.kind, msg.Text, tc.want)
		}
		if msg.Card == nil || msg.Card.Title != tc.want {
			t.Errorf("kind %s: card title %+v, want %q", tc.kind, msg.Card, tc.want)
		}
		if msg.Card.Theme != "modern-inline" {
			t.Errorf("kind %s: theme %q", tc.kind, msg.Card.Theme)
		}
	}
}

func TestSlashResponseButtonOnlyWithURLAndLabel(t *testing.T) {
	msg := SlashResponse(SlashResponseParams{
		Kind:        ResponseSuccess,
		Title:       "Task Created",
		ActionURL:   "https://notion.so/page",
		ActionLabel: "View in Notion",
	})
	if len(msg.Buttons) != 1 {
		t.Fatalf("got %d buttons, want 1", len(msg.Buttons))
	}
	btn := msg.Buttons[0]
	if btn.Label != "View in Notion" || btn.Type != "open.url" {
		t.Fatalf("unexpected button: %+v", btn)
	}
	if btn.Action == nil || btn.Action.Data["url"] != "https://notion.so/page" {
		t.Fatalf("unexpected action: %+v", btn.Action)
	}

	// No label means no button, even with a URL.
	msg = SlashResponse(SlashResponseParams{
		Kind:      ResponseInfo,
		Title:     "Info",
		ActionURL: "https://notion.so/page",
	})
	if len(msg.Buttons) != 0 {
		t.Fatalf("button built without a label: %+v", msg.Buttons)
	}
}

func TestTaskUpdatedCard(t *testing.T) {
	msg := TaskUpdated("Ship it", "https://notion.so/page", "Task has been updated")
	if msg.Text != "Task updated: Ship it" {
		t.Fatalf("text %q", msg.Text)
	}
	if msg.Card.Title != "🔄 Task Updated" {
		t.Fatalf("card title %q", msg.Card.Title)
	}
	if len(msg.Buttons) != 1 || msg.Buttons[0].Label != "View Task" {
		t.Fatalf("unexpected buttons: %+v", msg.Buttons)
	}
}

func TestTaskReminderCard(t *testing.T) {
	msg := TaskReminder("Ship it", "https://notion.so/page", "2026-09-01")
	if msg.Text != "Reminder: Task \"Ship it\" is due 2026-09-01" {
		t.Fatalf("text %q", msg.Text)
	}
	if msg.Card.Title != "📋 Task Reminder" {
		t.Fatalf("card title %q", msg.Card.Title)
	}
}
