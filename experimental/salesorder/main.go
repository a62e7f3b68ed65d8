package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/natserract/erpnext/pkg/erpnext"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Get sales order name from command line or use default
	salesOrderName := "SO-00001"
	if len(os.Args) > 1 {
		salesOrderName = os.Args[1]
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := erpnext.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Create ERPNext client
	client, err := erpnext.NewERPNextWithLogger(cfg, logger)
	if err != nil {
		logger.Error("Failed to create client", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		return 1
	}

	salesOrder, err := submitSalesOrder(client, salesOrderName)
	if err != nil {
		logger.Error("Failed to submit sales order", zap.String("name", salesOrderName), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to submit sales order: %v\n", err)
		return exitCode(err)
	}
	fmt.Println(salesOrder)
	return 0
}

// exitCode is 2 for a sales order the server rejected and 1 for any other
// failure.
func exitCode(err error) int {
	if errors.Is(err, erpnext.ErrValidation) {
		return 2
	}
	return 1
}
