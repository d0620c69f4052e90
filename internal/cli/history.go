package cli

import (
	"errors"
	"fmt"

	"github.com/ayusman/airkeys/internal/config"
	"github.com/ayusman/airkeys/internal/server/api"
	"github.com/ayusman/airkeys/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List recorded typing sessions",
	Long:  `List recent typing sessions, or show one session and its keystrokes.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if !cfg.History.Enabled {
			return errors.New("history is disabled in the config")
		}

		st, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 0 {
			sessions, err := st.Sessions().List(historyLimit)
			if err != nil {
				return err
			}
			views := make([]api.SessionView, 0, len(sessions))
			for _, s := range sessions {
				views = append(views, api.NewSessionView(s))
			}
			printJson(views)
			return nil
		}

		sess, err := st.Sessions().GetByID(args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session %s not found", args[0])
		}
		if err != nil {
			return err
		}
		keys, err := st.Keystrokes().ListBySession(sess.ID)
		if err != nil {
			return err
		}
		printJson(api.NewSessionDetailView(sess, keys))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of sessions to list")
}
