package views

import (
	"fmt"
	"strings"

	"github.com/berth-dev/playback/internal/catalog"
	"github.com/berth-dev/playback/internal/playback"
	"github.com/berth-dev/playback/internal/tui"
)

// ShowPicker reports whether the scenario picker is offered: only on a
// fresh conversation with nothing playing.
func ShowPicker(messages int, state playback.PlaybackState) bool {
	return messages == 1 && !state.IsPlaying
}

// RenderPicker lists the scenarios with the key that plays each.
func RenderPicker(scenarios []playback.Scenario, width int) string {
	var b strings.Builder
	b.WriteString(tui.DimStyle.Render("功能演示场景"))
	for i, sc := range scenarios {
		b.WriteString("\n")
		b.WriteString(tui.TitleStyle.Render(fmt.Sprintf("[%d] %s", i+1, sc.Title)))
		if sc.Description != "" {
			b.WriteString("\n    ")
			b.WriteString(tui.DimStyle.Render(sc.Description))
		}
	}
	return tui.CardStyle.Width(cardWidth(width)).Render(b.String())
}

// RenderProfile draws the customer profile overlay. Unknown subjects still
// get a frame so the overlay is visible for as long as it is open.
func RenderProfile(subject string, p catalog.Profile, ok bool, width int) string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("客户档案"))
	if !ok {
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render(subject))
		return tui.BoxStyle.Width(cardWidth(width)).Render(b.String())
	}

	b.WriteString("\n\n")
	b.WriteString(tui.UserStyle.Render(p.Name))
	if p.City != "" {
		b.WriteString("  " + tui.DimStyle.Render(p.City))
	}

	if len(p.Tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("客户标签"))
		b.WriteString("\n")
		tags := make([]string, len(p.Tags))
		for i, tag := range p.Tags {
			tags[i] = tui.TagStyle.Render(tag)
		}
		b.WriteString(strings.Join(tags, " "))
	}

	if len(p.Timeline) > 0 {
		b.WriteString("\n\n")
		b.WriteString(tui.DimStyle.Render("活跃轨迹"))
		for _, ev := range p.Timeline {
			b.WriteString(fmt.Sprintf("\n│ %s  %s", tui.DimStyle.Render(ev.When), ev.What))
		}
	}
	return tui.BoxStyle.Width(cardWidth(width)).Render(b.String())
}

// RenderControlBar shows the demo controls while a scenario plays.
func RenderControlBar(state playback.PlaybackState, width int) string {
	if !state.IsPlaying {
		return ""
	}
	label := "● 自动演示中..."
	action := "p 暂停"
	if state.IsPaused {
		label = "‖ 演示已暂停"
		action = "p 继续"
	}
	text := fmt.Sprintf("%s  [%s]  %s · s 停止", label, state.ActiveScenarioID, action)
	return tui.ControlBarStyle.Width(width).Render(text)
}
