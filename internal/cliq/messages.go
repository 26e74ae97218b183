// Package cliq builds and delivers messages for the Zoho Cliq bot:
// slash-command response cards and task notifications.
package cliq

// Message is the card shape Cliq renders.
type Message struct {
	Text    string   `json:"text"`
	Card    *Card    `json:"card,omitempty"`
	Bot     *Bot     `json:"bot,omitempty"`
	Buttons []Button `json:"buttons,omitempty"`
}

type Card struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Theme       string `json:"theme,omitempty"` // modern-inline, poll, prompt
}

type Bot struct {
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

type Button struct {
	Label  string  `json:"label"`
	Type   string  `json:"type,omitempty"`
	Action *Action `json:"action,omitempty"`
}

type Action struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// ResponseKind selects the icon on a slash-command response card.
type ResponseKind string

const (
	ResponseSuccess ResponseKind = "success"
	ResponseError   ResponseKind = "error"
	ResponseInfo    ResponseKind = "info"
)

var responseIcons = map[ResponseKind]string{
	ResponseSuccess: "✅",
	ResponseError:   "❌",
	ResponseInfo:    "ℹ️",
}

// SlashResponseParams feed the standard slash-command card.
type SlashResponseParams struct {
	Kind        ResponseKind
	Title       string
	Description string
	ActionURL   string
	ActionLabel string
}

// SlashResponse builds the card every slash subcommand answers with.
func SlashResponse(params SlashResponseParams) Message {
	icon := responseIcons[params.Kind]
	msg := Message{
		Text: icon + " " + params.Title,
		Card: &Card{
			Title:       icon + " " + params.Title,
			Description: params.Description,
			Theme:       "modern-inline",
		},
	}
	if params.ActionURL != "" && params.ActionLabel != "" {
		msg.Buttons = []Button{openURLButton(params.ActionLabel, params.ActionURL)}
	}
	return msg
}

func openURLButton(label, url string) Button {
	return Button{
		Label: label,
		Type:  "open.url",
		Action: &Action{
			Type: "open.url",
			Data: map[string]any{"url": url},
		},
	}
}

// TaskReminder builds the reminder card the scheduler sends.
func TaskReminder(taskTitle, taskURL, dueDate string) Message {
	return Message{
		Text: "Reminder: Task \"" + taskTitle + "\" is due " + dueDate,
		Card: &Card{
			Title:       "📋 Task Reminder",
			Description: "**" + taskTitle + "**\n\nDue: " + dueDate,
			Theme:       "modern-inline",
		},
		Buttons: []Button{openURLButton("View in Notion", taskURL)},
	}
}

// TaskAssigned builds the new-assignment notification card.
func TaskAssigned(taskTitle, taskURL, assignedBy string) Message {
	return Message{
		Text: assignedBy + " assigned you a task: " + taskTitle,
		Card: &Card{
			Title:       "✅ New Task Assigned",
			Description: "**" + taskTitle + "**\n\nAssigned by: " + assignedBy,
			Theme:       "modern-inline",
		},
		Buttons: []Button{openURLButton("View Task", taskURL)},
	}
}

// TaskUpdated builds the update notification card the webhook path sends.
func TaskUpdated(taskTitle, taskURL, changes string) Message {
	return Message{
		Text: "Task updated: " + taskTitle,
		Card: &Card{
			Title:       "🔄 Task Updated",
			Description: "**" + taskTitle + "**\n\n" + changes,
			Theme:       "modern-inline",
		},
		Buttons: []Button{openURLButton("View Task", taskURL)},
	}
}
