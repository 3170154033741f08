package di

import (
	"context"
	"fmt"
	"time"

	"fortunasbet-api/application/commands"
	"fortunasbet-api/application/commands/bus"
	commandhandlers "fortunasbet-api/application/commands/handlers"
	"fortunasbet-api/application/ports"
	"fortunasbet-api/application/queries"
	querybus "fortunasbet-api/application/queries/bus"
	queryhandlers "fortunasbet-api/application/queries/handlers"
	"fortunasbet-api/application/services"
	"fortunasbet-api/pkg/observability"

	"go.uber.org/zap"
)

// leaguesCacheTTL bounds how long the league list is served from memory
const leaguesCacheTTL = time.Hour

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// adaptCommand type-asserts the command before calling a typed handler
func adaptCommand[C bus.Command](handle func(context.Context, C) error) *CommandHandlerAdapter {
	return &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			typed, ok := cmd.(C)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return handle(ctx, typed)
		},
	}
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

func adaptQuery[Q querybus.Query, R any](handle func(context.Context, Q) (R, error)) *QueryHandlerAdapter {
	return &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(Q)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return handle(ctx, typed)
		},
	}
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	roomRepo ports.RoomRepository,
	membershipRepo ports.MembershipRepository,
	profileRepo ports.UserProfileRepository,
	notificationRepo ports.NotificationRepository,
	identity ports.IdentityProvider,
	audit *services.AuditService,
	notifier *services.NotificationService,
	collector *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.TracingMiddleware(tracer),
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(collector),
	)

	createRoom := commandhandlers.NewCreateRoomHandler(roomRepo, membershipRepo, audit, notifier, logger)
	editRoom := commandhandlers.NewEditRoomHandler(roomRepo, audit, notifier, logger)
	deleteRoom := commandhandlers.NewDeleteRoomHandler(roomRepo, membershipRepo, audit, notifier, logger)
	memberships := commandhandlers.NewMembershipHandlers(roomRepo, membershipRepo, audit, notifier, logger)
	profiles := commandhandlers.NewUserProfileHandlers(profileRepo, identity, audit, logger)
	acknowledge := commandhandlers.NewAcknowledgeNotificationHandler(notificationRepo, logger)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.CreateRoomCommand{}, adaptCommand(createRoom.Handle)},
		{commands.EditRoomCommand{}, adaptCommand(editRoom.Handle)},
		{commands.DeleteRoomCommand{}, adaptCommand(deleteRoom.Handle)},
		{commands.CreateMembershipRequestCommand{}, adaptCommand(memberships.HandleCreateRequest)},
		{commands.InviteUserCommand{}, adaptCommand(memberships.HandleInvite)},
		{commands.RespondMembershipCommand{}, adaptCommand(memberships.HandleRespond)},
		{commands.ChangeMemberStatusCommand{}, adaptCommand(memberships.HandleChangeStatus)},
		{commands.EnsureUserProfileCommand{}, adaptCommand(profiles.HandleEnsure)},
		{commands.UpdateUserProfileCommand{}, adaptCommand(profiles.HandleUpdate)},
		{commands.AcknowledgeNotificationCommand{}, adaptCommand(acknowledge.Handle)},
	}

	for _, r := range registrations {
		if err := commandBus.Register(r.cmd, r.handler); err != nil {
			return nil, fmt.Errorf("failed to register %T: %w", r.cmd, err)
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	roomRepo ports.RoomRepository,
	membershipRepo ports.MembershipRepository,
	profileRepo ports.UserProfileRepository,
	notificationRepo ports.NotificationRepository,
	auditRepo ports.AuditRepository,
	cache *InMemoryCache,
	collector *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.MetricsMiddleware(collector),
		querybus.CachingMiddleware(cache, leaguesCacheTTL, queries.ListValidLeaguesQuery{}),
	)

	rooms := queryhandlers.NewRoomQueryHandler(roomRepo, auditRepo, logger)
	memberships := queryhandlers.NewMembershipQueryHandler(roomRepo, membershipRepo, profileRepo, logger)
	users := queryhandlers.NewUserQueryHandler(profileRepo, notificationRepo, logger)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetRoomQuery{}, adaptQuery(rooms.HandleGetRoom)},
		{queries.ListRoomsQuery{}, adaptQuery(rooms.HandleListRooms)},
		{queries.ListValidLeaguesQuery{}, adaptQuery(rooms.HandleListValidLeagues)},
		{queries.GetRoomAuditQuery{}, adaptQuery(rooms.HandleGetRoomAudit)},
		{queries.GetMembershipQuery{}, adaptQuery(memberships.HandleGetMembership)},
		{queries.ListUserMembershipsQuery{}, adaptQuery(memberships.HandleListUserMemberships)},
		{queries.GetPendingRequestsQuery{}, adaptQuery(memberships.HandleGetPendingRequests)},
		{queries.GetRoomMembersQuery{}, adaptQuery(memberships.HandleGetRoomMembers)},
		{queries.GetUserProfileQuery{}, adaptQuery(users.HandleGetUserProfile)},
		{queries.GetPublicProfileQuery{}, adaptQuery(users.HandleGetPublicProfile)},
		{queries.ListNotificationsQuery{}, adaptQuery(users.HandleListNotifications)},
	}

	for _, r := range registrations {
		if err := queryBus.Register(r.query, r.handler); err != nil {
			return nil, fmt.Errorf("failed to register %T: %w", r.query, err)
		}
	}
	return queryBus, nil
}
