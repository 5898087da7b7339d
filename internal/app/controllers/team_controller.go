package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/startconnect/api/internal/app/models/dto"
	"github.com/startconnect/api/internal/app/services"
	"github.com/startconnect/api/internal/middleware"
)

// TeamController handles team management endpoints
type TeamController struct {
	teamService services.TeamService
}

// NewTeamController creates a new TeamController
func NewTeamController(teamService services.TeamService) *TeamController {
	return &TeamController{
		teamService: teamService,
	}
}

// CreateTeam godoc
// @Summary Create a team
// @Description Create a new team led by the caller
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeamRequest true "Team data"
// @Success 201 {object} dto.TeamResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Caller already belongs to a team"
// @Failure 500 {object} dto.ErrorResponse
// @Router /teams [post]
func (c *TeamController) CreateTeam(ctx *gin.Context) {
	var req dto.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	callerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	team, err := c.teamService.CreateTeam(ctx.Request.Context(), callerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, team)
}

// GetMyTeam godoc
// @Summary Get the caller's team
// @Description Retrieve the team the caller belongs to, with leader and member details
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TeamResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Caller does not belong to a team"
// @Failure 500 {object} dto.ErrorResponse
// @Router /teams/my-team [get]
func (c *TeamController) GetMyTeam(ctx *gin.Context) {
	callerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	team, err := c.teamService.GetMyTeam(ctx.Request.Context(), callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// InviteMember godoc
// @Summary Invite a member
// @Description Create a pending invitation to the caller's team. Only the team leader may invite.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InviteMemberRequest true "Invitee email"
// @Success 201 {object} dto.TeamInviteResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the team leader"
// @Failure 409 {object} dto.ErrorResponse "An invitation for this email already exists"
// @Failure 500 {object} dto.ErrorResponse
// @Router /teams/invite [post]
func (c *TeamController) InviteMember(ctx *gin.Context) {
	var req dto.InviteMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	callerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	invite, err := c.teamService.InviteMember(ctx.Request.Context(), callerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, invite)
}

// AcceptInvite godoc
// @Summary Accept a team invitation
// @Description Join the inviting team using an invitation token addressed to the caller's email
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AcceptInviteRequest true "Invitation token"
// @Success 200 {object} dto.TeamResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Invitation issued for a different account"
// @Failure 404 {object} dto.ErrorResponse "Invitation not found or expired"
// @Failure 409 {object} dto.ErrorResponse "Caller already belongs to a team"
// @Failure 500 {object} dto.ErrorResponse
// @Router /teams/accept-invite [post]
func (c *TeamController) AcceptInvite(ctx *gin.Context) {
	var req dto.AcceptInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	}

	callerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	team, err := c.teamService.AcceptInvite(ctx.Request.Context(), callerID, req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, team)
}

// RemoveMember godoc
// @Summary Remove a team member
// @Description Remove a member from the caller's team. Only the team leader may remove members.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param memberId path int true "Member user ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid member ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the team leader"
// @Failure 404 {object} dto.ErrorResponse "Member not in team"
// @Failure 500 {object} dto.ErrorResponse
// @Router /teams/members/{memberId} [delete]
func (c *TeamController) RemoveMember(ctx *gin.Context) {
	memberID, err := strconv.ParseInt(ctx.Param("memberId"), 10, 64)
	if err != nil || memberID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid member ID")))
		return
	}

	callerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	if err := c.teamService.RemoveMember(ctx.Request.Context(), callerID, memberID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Member removed"})
}
