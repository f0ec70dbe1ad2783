package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berth-dev/playback/internal/config"
	"github.com/berth-dev/playback/internal/conversation"
	"github.com/berth-dev/playback/internal/log"
	"github.com/berth-dev/playback/internal/router"
	"github.com/berth-dev/playback/internal/testutil"
)

// run executes the CLI against dir and returns what it printed.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestScenariosCmd(t *testing.T) {
	out, err := run(t, t.TempDir(), "scenarios")
	require.NoError(t, err)

	for _, id := range []string{"s1", "s2", "s3", "s4"} {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "场景一")
}

func TestPlayCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "play", "s1", "--speed", "1000")
	require.NoError(t, err)

	assert.Contains(t, out, "确认人群")
	assert.Contains(t, out, "audience 328")
	assert.Contains(t, out, "(goto_tasks)")
	assert.Contains(t, out, "~ [assistant]", "patched messages are reprinted")
	assert.NotContains(t, out, "Playback stopped.")

	journal, err := log.NewLogger(dir)
	require.NoError(t, err)
	events, err := journal.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, log.EventScenarioCompleted, events[len(events)-1].Event)

	out, err = run(t, dir, "log", "--tail", "1")
	require.NoError(t, err)
	assert.Contains(t, out, log.EventScenarioCompleted)
	assert.Contains(t, out, "s1")
	assert.NotContains(t, out, log.EventScenarioStarted)
}

func TestPlayCmd_UnknownScenario(t *testing.T) {
	_, err := run(t, t.TempDir(), "play", "nope", "--speed", "1000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scenario "nope"`)
}

func TestPlayCmd_BadSpeed(t *testing.T) {
	_, err := run(t, t.TempDir(), "play", "s1", "--speed", "0")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestSayCmd(t *testing.T) {
	dir := testutil.TempProject(t, testutil.ConfigProject(`
router:
  reply_delay: 1ms
  stage_delay: 1ms
`))

	out, err := run(t, dir, "say", "请推送")
	require.NoError(t, err)
	assert.Contains(t, out, "[user] 请推送")
	assert.Contains(t, out, router.ReplyMissingAccount+" (!)")

	out, err = run(t, dir, "say", "--confirm")
	require.NoError(t, err)
	assert.Contains(t, out, router.ConfirmText)
	assert.Contains(t, out, router.ReplyFinished)
}

func TestSayCmd_NoInput(t *testing.T) {
	_, err := run(t, t.TempDir(), "say")
	assert.Error(t, err)

	_, err = run(t, t.TempDir(), "say", "--confirm", "--reject")
	assert.Error(t, err)
}

func TestReportCmd(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "report")
	assert.Error(t, err, "an empty journal has nothing to report")

	_, err = run(t, dir, "play", "s4", "--speed", "1000")
	require.NoError(t, err)

	out, err := run(t, dir, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Playback Report")
	assert.Contains(t, out, "s4   started 1, completed 1")
}

func TestCleanCmd(t *testing.T) {
	dir := t.TempDir()
	journal, err := log.NewLogger(dir)
	require.NoError(t, err)
	old := time.Now().AddDate(0, 0, -90)
	require.NoError(t, journal.Append(log.LogEvent{Time: old, Event: log.EventSessionReset}))
	require.NoError(t, journal.Append(log.LogEvent{Event: log.EventSessionReset}))

	out, err := run(t, dir, "clean", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would remove 1 event(s)")

	out, err = run(t, dir, "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 event(s)")

	events, err := journal.ReadAll()
	require.NoError(t, err)
	assert.Len(t, events, 1)

	out, err = run(t, dir, "clean", "--keep", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "No events to clean up.")
}

func TestLogCmd_Empty(t *testing.T) {
	out, err := run(t, t.TempDir(), "log")
	require.NoError(t, err)
	assert.Contains(t, out, "No events recorded yet")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, config.Path(dir))

	cfg, err := config.ReadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	_, err = run(t, dir, "config", "init")
	assert.Error(t, err, "existing config is kept without --force")

	_, err = run(t, dir, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigShow_EnvOverride(t *testing.T) {
	t.Setenv("PLAYBACK_SPEED", "3")

	out, err := run(t, t.TempDir(), "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "speed: 3")
}

func TestRootCmd_NonTTY(t *testing.T) {
	// go test never attaches stdout to a terminal.
	out, err := run(t, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "playback play s1")
}

func TestFilterEvents(t *testing.T) {
	events := []log.LogEvent{
		{Event: log.EventScenarioStarted, ScenarioID: "s1"},
		{Event: log.EventIntentRouted},
		{Event: log.EventScenarioStarted, ScenarioID: "s2"},
		{Event: log.EventScenarioCompleted, ScenarioID: "s2"},
	}

	assert.Len(t, filterEvents(events, "", 0), 4)
	assert.Len(t, filterEvents(events, "s2", 0), 2)
	assert.Equal(t, events[3:], filterEvents(events, "", 1))
	assert.Len(t, filterEvents(events, "s3", 0), 0)
	assert.Len(t, events, 4, "input is not modified")
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, log.LogEvent{
		Time:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Event:      log.EventScenarioFailed,
		ScenarioID: "s3",
		Step:       2,
		Steps:      9,
		Error:      "boom",
	})
	out := buf.String()
	assert.Contains(t, out, log.EventScenarioFailed)
	assert.Contains(t, out, "step 2/9")
	assert.Contains(t, out, "error: boom")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestFormatMessage(t *testing.T) {
	m := conversation.AssistantMessage("处理中")
	m.Tasks = []conversation.Task{conversation.ProcessingTask("t1", "圈人群包", 40)}
	m.ConfirmCards = []conversation.ConfirmCard{{Title: "私聊推送", Count: 8, Target: "顾问A"}}

	got := formatMessage(m)
	assert.Contains(t, got, "[assistant] 处理中")
	assert.Contains(t, got, " 40%  圈人群包")
	assert.Contains(t, got, "confirm [私聊推送] 8 via 顾问A")
}

func TestMain(m *testing.M) {
	// Keep stray PLAYBACK_* variables from the environment out of the tests.
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PLAYBACK_") {
			os.Unsetenv(strings.SplitN(kv, "=", 2)[0])
		}
	}
	os.Exit(m.Run())
}
