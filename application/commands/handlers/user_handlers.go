package handlers

import (
	"context"
	"fmt"
	"slices"
	"time"

	"fortunasbet-api/application/commands"
	"fortunasbet-api/application/ports"
	"fortunasbet-api/application/services"
	"fortunasbet-api/domain/core/entities"

	"go.uber.org/zap"
)

// UserProfileHandlers handles profile commands
type UserProfileHandlers struct {
	profileRepo ports.UserProfileRepository
	identity    ports.IdentityProvider
	audit       *services.AuditService
	logger      *zap.Logger
}

// NewUserProfileHandlers creates the profile command handlers
func NewUserProfileHandlers(
	profileRepo ports.UserProfileRepository,
	identity ports.IdentityProvider,
	audit *services.AuditService,
	logger *zap.Logger,
) *UserProfileHandlers {
	return &UserProfileHandlers{
		profileRepo: profileRepo,
		identity:    identity,
		audit:       audit,
		logger:      logger,
	}
}

// HandleEnsure creates the caller's profile from token claims if it does not exist yet
func (h *UserProfileHandlers) HandleEnsure(ctx context.Context, cmd commands.EnsureUserProfileCommand) error {
	name := cmd.Name
	if name == "" {
		name = cmd.Username
	}

	profile, err := entities.NewUserProfile(cmd.UserID, cmd.Email, name, time.Now())
	if err != nil {
		return err
	}

	created, err := h.profileRepo.Create(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	if created {
		h.audit.Record(ctx, entities.AuditEntityUserProfile, profile.UserID, profile.UserID, entities.AuditActionCreate, nil, profile)
		h.logger.Info("User profile created", zap.String("userID", profile.UserID))
	}
	return nil
}

// HandleUpdate applies a profile edit and mirrors name and email to the identity provider
func (h *UserProfileHandlers) HandleUpdate(ctx context.Context, cmd commands.UpdateUserProfileCommand) error {
	profile, err := h.profileRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	before := *profile
	changed, err := profile.ApplyUpdate(entities.ProfileUpdate{
		Name:  cmd.Name,
		Email: cmd.Email,
		Color: cmd.Color,
	})
	if err != nil {
		return err
	}

	if err := h.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	h.audit.Record(ctx, entities.AuditEntityUserProfile, profile.UserID, cmd.UserID, entities.AuditActionUpdate, &before, profile)
	h.syncIdentity(ctx, cmd, profile, changed)

	h.logger.Info("User profile updated", zap.String("userID", profile.UserID), zap.Strings("changed", changed))
	return nil
}

// syncIdentity pushes name and email changes to the user pool. Failures are logged only.
func (h *UserProfileHandlers) syncIdentity(ctx context.Context, cmd commands.UpdateUserProfileCommand, profile *entities.UserProfile, changed []string) {
	attrs := make(map[string]string)
	if slices.Contains(changed, "name") {
		attrs["name"] = profile.Name
	}
	if slices.Contains(changed, "email") {
		attrs["email"] = profile.Email
	}
	if len(attrs) == 0 || h.identity == nil {
		return
	}

	username := cmd.Username
	if username == "" {
		username = cmd.UserID
	}
	if err := h.identity.UpdateUserAttributes(ctx, username, attrs); err != nil {
		h.logger.Warn("Failed to sync profile to identity provider",
			zap.String("userID", cmd.UserID),
			zap.Error(err),
		)
	}
}

// AcknowledgeNotificationHandler marks notifications as viewed
type AcknowledgeNotificationHandler struct {
	notificationRepo ports.NotificationRepository
	logger           *zap.Logger
}

func NewAcknowledgeNotificationHandler(notificationRepo ports.NotificationRepository, logger *zap.Logger) *AcknowledgeNotificationHandler {
	return &AcknowledgeNotificationHandler{notificationRepo: notificationRepo, logger: logger}
}

func (h *AcknowledgeNotificationHandler) Handle(ctx context.Context, cmd commands.AcknowledgeNotificationCommand) error {
	if err := h.notificationRepo.Acknowledge(ctx, cmd.UserID, cmd.NotificationID); err != nil {
		return err
	}
	h.logger.Debug("Notification acknowledged",
		zap.String("userID", cmd.UserID),
		zap.String("notificationID", cmd.NotificationID),
	)
	return nil
}
