// ABOUTME: Health command for the wusuleable CLI
// ABOUTME: Checks API connectivity and backend configuration

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/wusuleable-web/cli/internal/client"
	"github.com/markalston/wusuleable-web/models"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check API connectivity",
	Long:  `Check connectivity to the wusuleable API and report its backend configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	c := client.New(url, nil)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *models.HealthResponse) string {
	cache := resp.PricingCache
	if cache == "" {
		cache = "-"
	}
	return fmt.Sprintf(`API:           %s
Status:        %s
Environment:   %s
Backend:       %t
Pricing Cache: %s`, url, resp.Status, resp.AppEnv, resp.BackendConfigured, cache)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *models.HealthResponse) string {
	output := map[string]interface{}{
		"api":                url,
		"status":             resp.Status,
		"app_env":            resp.AppEnv,
		"backend_configured": resp.BackendConfigured,
		"pricing_cache":      resp.PricingCache,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
