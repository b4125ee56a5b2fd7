package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"github.com/yourorg/pdf-editor-service/pkg/logging"
)

// ServiceBusNotifier publishes upload events to an Azure Service Bus queue.
type ServiceBusNotifier struct {
	client *azservicebus.Client
	queue  string
	logger logging.Logger
}

// NewServiceBusNotifier creates a notifier for the given namespace and queue
// using shared access key authentication.
func NewServiceBusNotifier(namespace, keyName, keyValue, queue string, logger logging.Logger) (*ServiceBusNotifier, error) {
	connStr := fmt.Sprintf("Endpoint=sb://%s.servicebus.windows.net/;SharedAccessKeyName=%s;SharedAccessKey=%s",
		namespace, keyName, keyValue)

	client, err := azservicebus.NewClientFromConnectionString(connStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Service Bus client: %w", err)
	}

	return &ServiceBusNotifier{
		client: client,
		queue:  queue,
		logger: logger,
	}, nil
}

// DocumentUploaded publishes event as a JSON message.
func (n *ServiceBusNotifier) DocumentUploaded(ctx context.Context, event UploadEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal upload event: %w", err)
	}

	sender, err := n.client.NewSender(n.queue, nil)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}
	defer sender.Close(ctx)

	contentType := "application/json"
	msg := &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		MessageID:   &event.EventID,
	}

	if err := sender.SendMessage(ctx, msg, nil); err != nil {
		return fmt.Errorf("failed to send upload event: %w", err)
	}

	n.logger.Debug("Upload event published",
		logging.NewField("queue", n.queue),
		logging.NewField("event_id", event.EventID),
		logging.NewField("filename", event.Filename),
	)
	return nil
}
