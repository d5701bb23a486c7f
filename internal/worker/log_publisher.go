package worker

import "context"

// LogPublisher пишет события в лог, когда брокер отключен
type LogPublisher struct {
	logger Logger
}

func NewLogPublisher(logger Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, key, messageID string, body []byte) error {
	p.logger.Info("Event %s (%s): %s", key, messageID, body)
	return nil
}
