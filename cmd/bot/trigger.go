package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

var triggerCmd = &cobra.Command{
	Use:       "trigger morning|evening",
	Short:     "Ask a running server to distribute challenges now",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(entities.Morning), string(entities.Evening)},
	RunE:      runTrigger,
}

func init() {
	triggerCmd.Flags().String("server", "http://localhost:4111", "Base URL of the running bot server")
	triggerCmd.Flags().Duration("timeout", 2*time.Minute, "Request timeout")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	tod, err := entities.ParseTimeOfDay(args[0])
	if err != nil {
		return fmt.Errorf("%q: %w", args[0], err)
	}

	server, _ := cmd.Flags().GetString("server")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	body, err := json.Marshal(map[string]string{"timeOfDay": string(tod)})
	if err != nil {
		return err
	}

	url := strings.TrimRight(server, "/") + "/api/scheduler/trigger"
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") == nil {
		raw = pretty.Bytes()
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trigger failed: %s", resp.Status)
	}
	return nil
}
