package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"confirm-core/internal/service/mq"
	"confirm-core/pkg/config"
	"confirm-core/pkg/database"
)

// rootCmd is the base command, invoked without subcommands
var rootCmd = &cobra.Command{
	Use:   "confirm-cli",
	Short: "Inject confirmation pipeline events for testing",
	Long: `A development tool for the transaction confirmation service.
It publishes signer callbacks and messaging subscriptions onto the inbound
topics so the pipeline can be exercised without the real collaborators.`,
}

// Execute adds all child commands to the root command and sets flags
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newProducer builds a producer from the shared configuration. The CLI uses
// the same MQ selection as the server.
func newProducer() (mq.Producer, error) {
	config.Init()

	if config.Global.Redis.MQType == "kafka" {
		return mq.NewKafkaProducer(config.Global.Kafka.Brokers), nil
	}

	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		return nil, err
	}
	return mq.NewRedisProducer(rdb), nil
}

// publishJSON marshals the event and publishes it with a short timeout.
func publishJSON(topic, key string, ev any) error {
	producer, err := newProducer()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := producer.Publish(ctx, topic, key, payload); err != nil {
		return err
	}
	fmt.Printf("published to %s: %s\n", topic, payload)
	return nil
}
