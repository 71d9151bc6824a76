package events

import "encoding/json"

// StartConsumer drains the transaction queue and logs each event. It blocks
// until the channel closes and is meant to run in its own goroutine; a real
// deployment would fan events out to vendor notification channels here.
func (b *Broker) StartConsumer() {
	msgs, err := b.channel.Consume(
		b.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		b.logger.Printf("events: consume %s error=%v", b.queue, err)
		return
	}

	for msg := range msgs {
		var env Envelope
		if err := json.Unmarshal(msg.Body, &env); err != nil {
			b.logger.Printf("events: malformed message error=%v", err)
			msg.Nack(false, false)
			continue
		}
		b.logger.Printf("events: %s tx=%s type=%s status=%s", env.Event, env.Transaction.ID, env.Transaction.Type, env.Transaction.Status)
		msg.Ack(false)
	}
}
