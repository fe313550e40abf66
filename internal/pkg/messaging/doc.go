// Package messaging publishes domain events to a broker.
//
// Kafka and NATS are supported behind the Publisher interface. The service
// only emits events; consumers live in other services.
package messaging
