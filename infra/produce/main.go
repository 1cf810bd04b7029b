package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	ServerService *ServerService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	serverService := InitServerService(channel)
	if serverService == nil {
		panic("Failed to initialize Server service")
	}

	produceInstance = &Produce{
		ServerService: serverService,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
