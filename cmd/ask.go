package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/progress"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the copilot one question and print its answer",
	Long: `Runs a single copilot exchange and prints the transcript. Without a
question, one of the workspace quick actions can be picked interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			sel := promptui.Select{
				Label: "Quick action",
				Items: assistant.QuickActions,
			}
			_, picked, err := sel.Run()
			if err != nil {
				return fmt.Errorf("quick action selection: %w", err)
			}
			question = picked
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		pack, err := fixtures.Load()
		if err != nil {
			return err
		}

		opts := assistantOptions(cfg, activity.NewStore(database), logger.Named("assistant"))
		opts.SessionID = "cli-" + uuid.NewString()
		return ask(cmd.OutOrStdout(), progress.NewReporter(cmd.ErrOrStderr()), assistant.New(pack, opts), question)
	},
}

// ask runs question through s, reporting each delayed step, and prints the
// messages it produced. s is closed on return.
func ask(w io.Writer, rep progress.Reporter, s *assistant.Session, question string) error {
	sub := s.Subscribe(16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub.C() {
			if ev.Type == assistant.EventMessage && ev.Message.Role == assistant.RoleAssistant {
				rep.Step(firstLine(ev.Message.Plain()))
			}
		}
	}()

	before := len(s.Messages())
	rep.Start(s.Steps(question), question)
	ok, err := s.Submit(question)
	if err != nil {
		s.Close()
		<-done
		return err
	}
	if ok {
		s.Wait()
	}
	msgs := s.Messages()
	s.Close()
	<-done
	rep.Finish()

	for _, m := range msgs[before:] {
		who := "AI Copilot"
		if m.Role == assistant.RoleUser {
			who = "You"
		}
		fmt.Fprintf(w, "%s:\n%s\n\n", who, m.Plain())
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func init() {
	rootCmd.AddCommand(askCmd)
}
