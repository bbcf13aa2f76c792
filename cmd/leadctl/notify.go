package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"paramanu/internal/config"
	"paramanu/internal/domain"
	"paramanu/internal/relay"
	"paramanu/internal/services"
)

var (
	notifyKind    string
	notifyName    string
	notifyEmail   string
	notifyCompany string
	notifyMessage string
	relayURL      string
)

func init() {
	for _, cmd := range []*cobra.Command{notifyTestCmd, renderCmd} {
		cmd.Flags().StringVar(&notifyKind, "kind", string(domain.KindGeneralContact), "inquiry kind")
		cmd.Flags().StringVar(&notifyName, "name", "Test Lead", "lead name")
		cmd.Flags().StringVar(&notifyEmail, "email", "test@example.com", "lead email")
		cmd.Flags().StringVar(&notifyCompany, "company", "", "lead company")
		cmd.Flags().StringVar(&notifyMessage, "message", "Test notification from leadctl", "free text message")
	}
	notifyTestCmd.Flags().StringVar(&relayURL, "relay", "", "relay URL (defaults to RELAY_URL)")
}

var notifyTestCmd = &cobra.Command{
	Use:   "notify-test",
	Short: "Send a test inquiry through the notification relay",
	Long: `Send a test inquiry to the notification relay, signed with
RELAY_SHARED_SECRET when it is set, and print the relay's answer.

Examples:
  leadctl notify-test
  leadctl notify-test --kind schedule-assessment --name "Jane Doe" --email jane@co.com`,
	RunE: runNotifyTest,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the WhatsApp text for a test inquiry without sending it",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := testPayload()
		if err := p.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.Render())
		return nil
	},
}

func testPayload() relay.Payload {
	return relay.PayloadFrom(&domain.Inquiry{
		Kind:    domain.Kind(notifyKind),
		Name:    notifyName,
		Email:   notifyEmail,
		Company: notifyCompany,
		Message: notifyMessage,
	})
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if relayURL != "" {
		cfg.Relay.URL = relayURL
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Relay.Timeout+2*time.Second)
	defer cancel()

	client := services.NewRelayClient(&cfg.Relay, zap.NewNop())
	res, err := client.Send(ctx, testPayload())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "relay: %s\n", res.Message)
	return nil
}
