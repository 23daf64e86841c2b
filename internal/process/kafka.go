package process

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paycrux/switch-connector/internal/kafka"
	"github.com/paycrux/switch-connector/internal/model"
)

// KafkaEngine bridges to an external workflow engine over two topics: one
// for process-start commands, one for resume messages.
type KafkaEngine struct {
	pub         *kafka.Publisher
	startTopic  string
	signalTopic string
}

func NewKafkaEngine(pub *kafka.Publisher, startTopic, signalTopic string) *KafkaEngine {
	return &KafkaEngine{pub: pub, startTopic: startTopic, signalTopic: signalTopic}
}

type startCommand struct {
	FlowID    string         `json:"flowId"`
	Variables map[string]any `json:"variables"`
}

type signalMessage struct {
	MessageName    string         `json:"messageName"`
	CorrelationKey string         `json:"correlationKey"`
	TimeToLiveMs   int64          `json:"timeToLiveMs"`
	Variables      map[string]any `json:"variables"`
}

func (e *KafkaEngine) StartLookup(ctx context.Context, flowID string, variables map[string]any) error {
	b, err := json.Marshal(startCommand{FlowID: flowID, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal start command: %w", err)
	}

	key := flowID
	if txID, ok := variables[model.VarTransactionID].(string); ok && txID != "" {
		key = txID
	}
	if err := e.pub.Publish(ctx, e.startTopic, key, b); err != nil {
		return fmt.Errorf("publish start command: %w", err)
	}
	return nil
}

func (e *KafkaEngine) Publish(ctx context.Context, sig model.ProcessSignal) error {
	b, err := json.Marshal(signalMessage{
		MessageName:    sig.MessageName,
		CorrelationKey: sig.CorrelationKey,
		TimeToLiveMs:   sig.TTL.Milliseconds(),
		Variables:      sig.Variables,
	})
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}

	if err := e.pub.Publish(ctx, e.signalTopic, sig.CorrelationKey, b); err != nil {
		return fmt.Errorf("publish signal: %w", err)
	}
	return nil
}
