package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/doeshing/firewatch/internal/application/query"
	"github.com/doeshing/firewatch/internal/domain"
	"github.com/doeshing/firewatch/internal/infrastructure/cli/helpers"
	"github.com/doeshing/firewatch/internal/pkg/filesystem"
)

// lineReader is the part of liner the REPL loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// lineHistory is the part of liner that loads and stores line-editing history.
type lineHistory interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

// NewChatCommand starts the interactive session.
func NewChatCommand(rt *Runtime) *cobra.Command {
	var raw, saveHistory bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive emergency Q&A session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := rt.Container(ctx)
			if err != nil {
				return err
			}
			sel := selectWithSpinner(ctx, cmd, container)
			printMode(cmd, sel)

			line := liner.NewLiner()
			line.SetCtrlCAborts(true)
			historyPath := lineHistoryPath(saveHistory)
			loadLineHistory(line, historyPath)
			defer func() {
				saveLineHistory(line, historyPath)
				line.Close()
			}()

			repl := &chatLoop{
				in:       line,
				out:      cmd.OutOrStdout(),
				router:   container.NewRouter(sel),
				renderer: helpers.NewRenderer(cmd.OutOrStdout(), raw),
				incident: container.Config.Incident.Name,
			}
			return repl.run(ctx)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")
	cmd.Flags().BoolVar(&saveHistory, "save-history", false, "Keep typed lines in ~/.firewatch/chat_history for recall in later sessions")
	return cmd
}

type chatLoop struct {
	in       lineReader
	out      io.Writer
	router   *query.Router
	renderer *helpers.Renderer
	incident string
}

func (c *chatLoop) run(ctx context.Context) error {
	fmt.Fprintf(c.out, "Forest fire emergency assistant: %s\n", c.incident)
	fmt.Fprintf(c.out, "Backend: %s. Type %q for commands, %q to leave.\n\n", c.router.Mode().Label(), replHelp, replQuit)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		input, err := c.in.Prompt(chatPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out, msgChatGoodbye)
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		c.in.AppendHistory(input)

		switch strings.ToLower(input) {
		case replQuit, replExit:
			fmt.Fprintln(c.out, msgChatGoodbye)
			return nil
		case replClear:
			c.router.ClearHistory()
			fmt.Fprintln(c.out, msgHistoryClear)
		case replMode:
			fmt.Fprintln(c.out, c.router.Mode().Label())
		case replHistory:
			helpers.PrintHistory(c.out, c.router.History())
		case replHelp:
			c.printCommands()
		default:
			c.renderer.Markdown(c.router.Query(ctx, input))
		}
	}
}

func (c *chatLoop) printCommands() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintf(c.out, "  %-8s show this list\n", replHelp)
	fmt.Fprintf(c.out, "  %-8s show the backend answering questions\n", replMode)
	fmt.Fprintf(c.out, "  %-8s list questions asked this session\n", replHistory)
	fmt.Fprintf(c.out, "  %-8s forget this session's questions\n", replClear)
	fmt.Fprintf(c.out, "  %-8s leave (also %s)\n", replQuit, replExit)
	fmt.Fprintf(c.out, "Anything else is answered as a question, e.g. %q.\n", "How many evacuees are in shelters?")
}

// lineHistoryPath returns where typed lines are kept between sessions, or ""
// when they stay in memory. Answers are never written.
func lineHistoryPath(save bool) string {
	if !save {
		return ""
	}
	return filepath.Join(filesystem.StateDir(), chatHistoryFile)
}

func loadLineHistory(line lineHistory, path string) {
	if path == "" {
		return
	}
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
}

func saveLineHistory(line lineHistory, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.SecureFilePermissions)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
