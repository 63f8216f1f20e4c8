package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/firewatch/internal/application/query"
	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/infrastructure/cli/helpers"
)

type scriptedInput struct {
	lines   []string
	history []string
}

func (s *scriptedInput) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedInput) AppendHistory(item string) {
	s.history = append(s.history, item)
}

type staticViews struct{}

func (staticViews) Overview(context.Context) domain.Overview {
	return domain.Overview{
		IncidentName: "Pine Ridge National Forest Wildfire",
		Fire:         domain.FireStatistics{AcresBurned: 15750, ContainmentPercent: 25},
	}
}

func (staticViews) Evacuees(context.Context) domain.EvacueeStatus { return domain.EvacueeStatus{} }

func (staticViews) Zones(context.Context) domain.ZoneStatus { return domain.ZoneStatus{} }

func (staticViews) Resources(context.Context) domain.ResourceStatus { return domain.ResourceStatus{} }

func (staticViews) Search(_ context.Context, term string) domain.SearchResult {
	return domain.SearchResult{Summary: domain.SearchSummary{SearchTerm: term}}
}

func newLoop(lines ...string) (*chatLoop, *scriptedInput, *bytes.Buffer, *query.Router) {
	in := &scriptedInput{lines: lines}
	var out bytes.Buffer
	router := query.NewRouter(query.Options{Views: staticViews{}})
	return &chatLoop{
		in:       in,
		out:      &out,
		router:   router,
		renderer: helpers.NewRenderer(&out, true),
		incident: "Pine Ridge National Forest Wildfire",
	}, in, &out, router
}

func TestChatLoop_AnswersAndQuits(t *testing.T) {
	loop, in, out, router := newLoop("", "what's the fire status?", "mode", "history", "quit", "never read")

	require.NoError(t, loop.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Backend: Local fallback")
	assert.Contains(t, text, "15,750 acres burned")
	assert.Contains(t, text, "1. [")
	assert.Contains(t, text, msgChatGoodbye)
	assert.Equal(t, []string{"never read"}, in.lines)
	assert.Equal(t, []string{"what's the fire status?", "mode", "history", "quit"}, in.history)
	assert.Len(t, router.History(), 1)
}

func TestChatLoop_ClearForgetsTranscript(t *testing.T) {
	loop, _, out, router := newLoop("status", "zones", "clear", "EXIT")

	require.NoError(t, loop.run(context.Background()))

	assert.Empty(t, router.History())
	assert.Contains(t, out.String(), msgHistoryClear)
}

func TestChatLoop_EOFEndsSession(t *testing.T) {
	loop, _, out, _ := newLoop("help")

	require.NoError(t, loop.run(context.Background()))
	assert.Contains(t, out.String(), "Commands:")
	assert.Contains(t, out.String(), msgChatGoodbye)
}

type memoryLines struct {
	lines []string
}

func (m *memoryLines) ReadHistory(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.lines = strings.Fields(string(data))
	return len(m.lines), nil
}

func (m *memoryLines) WriteHistory(w io.Writer) (int, error) {
	n := 0
	for _, l := range m.lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func TestChatCommand_LineHistoryIsNotSavedByDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	flag := NewChatCommand(&Runtime{}).Flags().Lookup("save-history")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)

	path := lineHistoryPath(false)
	assert.Empty(t, path)
	saveLineHistory(&memoryLines{lines: []string{"evacuees?"}}, path)

	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestChatCommand_SaveHistoryRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := lineHistoryPath(true)
	assert.Equal(t, filepath.Join(home, ".firewatch", chatHistoryFile), path)

	saveLineHistory(&memoryLines{lines: []string{"status", "zones"}}, path)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	restored := &memoryLines{}
	loadLineHistory(restored, path)
	assert.Equal(t, []string{"status", "zones"}, restored.lines)
}
