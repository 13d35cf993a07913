package service

import (
	"encoding/json"

	"market-insights-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishIngestDocument(payload dto.PublishIngestMessage) error
}

// publisherService hands ingestion work to the in-process bus so the HTTP
// request returns before chunking and embedding run.
type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (s *publisherService) PublishIngestDocument(payload dto.PublishIngestMessage) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return s.pubSub.Publish(s.topicName, msg)
}
