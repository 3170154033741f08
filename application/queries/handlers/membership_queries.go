package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fortunasbet-api/application/ports"
	"fortunasbet-api/application/queries"
	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/domain/core/valueobjects"
	pkgerrors "fortunasbet-api/pkg/errors"

	"go.uber.org/zap"
)

// MembershipQueryHandler handles membership read queries
type MembershipQueryHandler struct {
	roomRepo       ports.RoomRepository
	membershipRepo ports.MembershipRepository
	profileRepo    ports.UserProfileRepository
	logger         *zap.Logger
}

// NewMembershipQueryHandler creates a new membership query handler
func NewMembershipQueryHandler(
	roomRepo ports.RoomRepository,
	membershipRepo ports.MembershipRepository,
	profileRepo ports.UserProfileRepository,
	logger *zap.Logger,
) *MembershipQueryHandler {
	return &MembershipQueryHandler{
		roomRepo:       roomRepo,
		membershipRepo: membershipRepo,
		profileRepo:    profileRepo,
		logger:         logger,
	}
}

// HandleGetMembership returns one membership to the member or a room admin
func (h *MembershipQueryHandler) HandleGetMembership(ctx context.Context, query queries.GetMembershipQuery) (*entities.Membership, error) {
	if query.RequesterID != query.UserID {
		if _, err := h.adminRoom(ctx, query.RoomID, query.RequesterID); err != nil {
			return nil, err
		}
	}
	return h.membershipRepo.Get(ctx, query.RoomID, query.UserID)
}

// HandleListUserMemberships returns the caller's memberships, newest first
func (h *MembershipQueryHandler) HandleListUserMemberships(ctx context.Context, query queries.ListUserMembershipsQuery) ([]*entities.Membership, error) {
	memberships, err := h.membershipRepo.ListByUser(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	sort.SliceStable(memberships, func(i, j int) bool {
		return memberships[i].CreatedAt > memberships[j].CreatedAt
	})
	return memberships, nil
}

// HandleGetPendingRequests returns a room's open join requests, oldest first
func (h *MembershipQueryHandler) HandleGetPendingRequests(ctx context.Context, query queries.GetPendingRequestsQuery) ([]*entities.Membership, error) {
	room, err := h.adminRoom(ctx, query.RoomID, query.UserID)
	if err != nil {
		return nil, err
	}

	memberships, err := h.membershipRepo.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list room memberships: %w", err)
	}

	pending := make([]*entities.Membership, 0, len(memberships))
	for _, m := range memberships {
		if m.Status == valueobjects.StatusPending && m.Type == valueobjects.TypeRequest {
			pending = append(pending, m)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt < pending[j].CreatedAt
	})
	return pending, nil
}

// HandleGetRoomMembers returns every membership of a room with profile details,
// ordered approved, pending, denied and then by name
func (h *MembershipQueryHandler) HandleGetRoomMembers(ctx context.Context, query queries.GetRoomMembersQuery) ([]queries.RoomMember, error) {
	room, err := h.adminRoom(ctx, query.RoomID, query.UserID)
	if err != nil {
		return nil, err
	}

	memberships, err := h.membershipRepo.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list room memberships: %w", err)
	}

	userIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		userIDs = append(userIDs, m.UserID)
	}
	profiles, err := h.profileRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		// Members are still listed, just without names
		h.logger.Warn("Failed to load member profiles", zap.String("roomID", room.ID), zap.Error(err))
		profiles = map[string]*entities.UserProfile{}
	}

	members := make([]queries.RoomMember, 0, len(memberships))
	for _, m := range memberships {
		member := queries.RoomMember{Membership: *m, Color: string(valueobjects.DefaultColor)}
		if p, ok := profiles[m.UserID]; ok {
			member.Name = p.Name
			member.Color = string(p.Color)
		}
		members = append(members, member)
	}

	sort.SliceStable(members, func(i, j int) bool {
		pi, pj := members[i].Status.SortPriority(), members[j].Status.SortPriority()
		if pi != pj {
			return pi < pj
		}
		ni, nj := strings.ToLower(members[i].Name), strings.ToLower(members[j].Name)
		if ni != nj {
			return ni < nj
		}
		return members[i].UserID < members[j].UserID
	})
	return members, nil
}

func (h *MembershipQueryHandler) adminRoom(ctx context.Context, roomID, userID string) (*entities.Room, error) {
	room, err := h.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsAdmin(userID) {
		return nil, pkgerrors.NewUnauthorizedRoomAccessError("only room admins can view this room's memberships")
	}
	return room, nil
}
