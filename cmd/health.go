package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/schemashot/database"
	"github.com/ridoystarlord/schemashot/utils"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	Long: `Check if the database named by DATABASE_URL is accessible and responsive.

Examples:
  schemashot health                    # Check default database connection
  schemashot health --timeout 10s      # Set custom timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		driver, err := checkDatabaseHealth()
		if err != nil {
			fmt.Printf("❌ Database health check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Database (%s) is healthy and accessible\n", driver)
	},
}

var healthTimeout time.Duration

func init() {
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", 5*time.Second, "Timeout for health check")
}

func checkDatabaseHealth() (database.Driver, error) {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	url, err := utils.GetDatabaseURL()
	if err != nil {
		return "", err
	}

	// Open pings before returning.
	conn, err := database.Open(ctx, url)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	return conn.Driver, nil
}
