// Package views renders the conversation and its overlays for the TUI.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/playback/internal/conversation"
	"github.com/berth-dev/playback/internal/tui"
)

const (
	userName      = "我"
	assistantName = "365私域管家"
	progressWidth = 10
)

// NewMarkdownRenderer builds the renderer used for copy-card drafts.
// style is a glamour standard style name; empty selects the terminal's
// background automatically.
func NewMarkdownRenderer(style string, width int) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	return glamour.NewTermRenderer(opts...)
}

// RenderMessages formats the conversation log. md may be nil, in which case
// copy cards are shown as plain text.
func RenderMessages(msgs []conversation.Message, width int, md *glamour.TermRenderer) string {
	if len(msgs) == 0 {
		return tui.DimStyle.Render("暂无消息")
	}

	var b strings.Builder
	for i, msg := range msgs {
		b.WriteString(renderMessage(msg, width, md))
		if i < len(msgs)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func renderMessage(msg conversation.Message, width int, md *glamour.TermRenderer) string {
	var b strings.Builder

	switch msg.Role {
	case conversation.RoleUser:
		b.WriteString(tui.UserStyle.Render(userName + ": "))
	default:
		b.WriteString(tui.AssistantStyle.Render(assistantName + ": "))
	}

	content := msg.Content
	if msg.IsError {
		content = tui.ErrorStyle.Render("! " + content)
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(content))

	if len(msg.Tasks) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderTasks(msg.Tasks))
	}
	if msg.AudienceCard != nil {
		b.WriteString("\n")
		b.WriteString(RenderAudience(*msg.AudienceCard, width))
	}
	for _, c := range msg.CopyCards {
		b.WriteString("\n")
		b.WriteString(renderCopy(c, width, md))
	}
	for _, c := range msg.ConfirmCards {
		b.WriteString("\n")
		b.WriteString(renderConfirm(c, width))
	}
	if len(msg.ActionButtons) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderButtons(msg.ActionButtons))
	}
	return b.String()
}

// RenderTasks draws a pipeline as one line per task.
func RenderTasks(tasks []conversation.Task) string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		var icon string
		switch t.Status {
		case conversation.TaskDone:
			icon = tui.TaskDone
		case conversation.TaskProcessing:
			icon = tui.TaskProcessing
		case conversation.TaskError:
			icon = tui.TaskFailed
		default:
			icon = tui.TaskPending
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s %3d%%", icon, progressBar(t.Progress), t.Name, t.Progress))
	}
	return strings.Join(lines, "\n")
}

func progressBar(progress int) string {
	filled := progress * progressWidth / 100
	return tui.ProgressFullStyle.Render(strings.Repeat("█", filled)) +
		tui.ProgressEmptyStyle.Render(strings.Repeat("░", progressWidth-filled))
}

// RenderAudience draws the audience card with its samples.
func RenderAudience(card conversation.AudienceCard, width int) string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(fmt.Sprintf("目标人群 %d 人", card.TotalCount)))
	for _, s := range card.Samples {
		b.WriteString("\n")
		tags := make([]string, len(s.Tags))
		for i, tag := range s.Tags {
			tags[i] = tui.TagStyle.Render(tag)
		}
		b.WriteString(fmt.Sprintf("%s [%s] %s", s.Name, s.ID, strings.Join(tags, " ")))
		if s.Reason != "" {
			b.WriteString("\n  ")
			b.WriteString(tui.DimStyle.Render(s.Reason))
		}
	}
	return tui.CardStyle.Width(cardWidth(width)).Render(b.String())
}

func renderCopy(c conversation.CopyCard, width int, md *glamour.TermRenderer) string {
	body := c.Content
	if md != nil {
		if out, err := md.Render(c.Content); err == nil {
			body = strings.Trim(out, "\n")
		}
	}
	return tui.CardStyle.Width(cardWidth(width)).Render(tui.TitleStyle.Render(c.Type) + "\n" + body)
}

func renderConfirm(c conversation.ConfirmCard, width int) string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(c.Title))
	b.WriteString(fmt.Sprintf("\n发送人数: %d", c.Count))
	if c.Target != "" {
		b.WriteString("\n执行账号: " + c.Target)
	}
	b.WriteString("\n内容预览: " + tui.DimStyle.Render(c.ContentSnapshot))
	return tui.CardStyle.Width(cardWidth(width)).Render(b.String())
}

// RenderButtons lays the action buttons out in a row.
func RenderButtons(buttons []conversation.ActionButton) string {
	rendered := make([]string, len(buttons))
	for i, btn := range buttons {
		label := btn.Label
		if hint := buttonHint(btn.Action); hint != "" {
			label = hint + " " + label
		}
		if btn.Primary {
			rendered[i] = tui.PrimaryButtonStyle.Render(label)
		} else {
			rendered[i] = tui.ButtonStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// buttonHint names the key that triggers an action, if any.
func buttonHint(action string) string {
	switch action {
	case "goto_tasks":
		return "[t]"
	case "goto_audience":
		return "[a]"
	}
	return ""
}

func cardWidth(width int) int {
	if width > 64 {
		return 64
	}
	return width
}
