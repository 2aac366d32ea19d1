package main

import (
	"context"
	"log"

	"devicehub-backend/application/services"
	"devicehub-backend/infrastructure/config"
	"devicehub-backend/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

var container *di.Container

func init() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

// confirmationHandler seeds an empty device association when a new user
// confirms their account
type confirmationHandler struct {
	service *services.AssociationService
	logger  *zap.Logger
}

// Handle writes the association record for the confirmed user. A failed write
// is returned to the identity provider so it can retry the trigger; the email
// is only ever captured here, so dropping the record silently would lose it
// for good.
func (h *confirmationHandler) Handle(ctx context.Context, event events.CognitoEventUserPoolsPostConfirmation) (events.CognitoEventUserPoolsPostConfirmation, error) {
	userID := event.UserName
	email := event.Request.UserAttributes["email"]

	if err := h.service.InitUser(ctx, userID, email); err != nil {
		h.logger.Error("failed to initialize user association",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return event, err
	}

	h.logger.Info("user association initialized",
		zap.String("user_id", userID),
	)
	return event, nil
}

func main() {
	handler := &confirmationHandler{
		service: container.Service,
		logger:  container.Logger,
	}
	lambda.Start(handler.Handle)
}
