package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/profile-service/internal/domain"
	"github.com/tazhibayda/profile-service/internal/github"
	"github.com/tazhibayda/profile-service/internal/log"
	"github.com/tazhibayda/profile-service/internal/metrics"
	"github.com/tazhibayda/profile-service/internal/queue"
)

const (
	msgNoProfile       = "There is no profile of the user"
	msgProfileNotFound = "Profile not found"
)

type ownerView struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar"`
	Email  string             `json:"email,omitempty"`
}

// profileView denormalizes the owning account onto the profile document for
// display; the embedded User id field is shadowed by the populated object.
type profileView struct {
	domain.Profile
	User ownerView `json:"user"`
}

func withOwner(p domain.Profile, u *domain.User, includeEmail bool) profileView {
	v := profileView{Profile: p}
	if u != nil {
		v.User = ownerView{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
		if includeEmail {
			v.User.Email = u.Email
		}
	} else {
		v.User = ownerView{ID: p.User}
	}
	return v
}

// Me godoc
// @Summary Current account's profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} profileView
// @Failure 400 {object} map[string]string
// @Router /api/profile/me [get]
func (h *Handler) Me(c *gin.Context) {
	owner := ownerID(c)
	p, err := h.Store.FindProfileByUser(c.Request.Context(), owner)
	if err != nil {
		h.storeError(c, "find profile", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgNoProfile})
		return
	}
	u, _ := h.Store.FindUserByID(c.Request.Context(), owner)
	c.JSON(http.StatusOK, withOwner(*p, u, false))
}

// UpsertProfile godoc
// @Summary Create or update the caller's profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body domain.ProfileInput true "partial profile fields"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} map[string]any
// @Router /api/profile [post]
func (h *Handler) UpsertProfile(c *gin.Context) {
	var in domain.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Msg: "invalid json"}}})
		return
	}
	if errs := validateProfileInput(in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	owner := ownerID(c)
	p, created, err := h.Store.UpsertProfile(c.Request.Context(), owner, in)
	if err != nil {
		h.storeError(c, "upsert profile", err)
		return
	}

	go h.Events.Publish(c.Request.Context(), eventsExchange, "profile.updated",
		queue.ProfileUpdated{UserID: owner, Created: created},
		requestID(c))

	c.JSON(http.StatusOK, p)
}

// ListProfiles godoc
// @Summary List all profiles
// @Tags profile
// @Produce json
// @Success 200 {array} profileView
// @Router /api/profile [get]
func (h *Handler) ListProfiles(c *gin.Context) {
	ps, err := h.Store.ListProfiles(c.Request.Context())
	if err != nil {
		h.storeError(c, "list profiles", err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.User)
	}
	owners, err := h.Store.FindUsersByIDs(c.Request.Context(), ids)
	if err != nil {
		h.storeError(c, "load owners", err)
		return
	}

	out := make([]profileView, 0, len(ps))
	for _, p := range ps {
		var u *domain.User
		if o, ok := owners[p.User]; ok {
			u = &o
		}
		out = append(out, withOwner(p, u, true))
	}
	c.JSON(http.StatusOK, out)
}

// GetProfileByUser godoc
// @Summary Profile by owner id
// @Tags profile
// @Produce json
// @Param user_id path string true "owner id"
// @Success 200 {object} profileView
// @Failure 400 {object} map[string]string
// @Router /api/profile/user/{user_id} [get]
func (h *Handler) GetProfileByUser(c *gin.Context) {
	// a structurally invalid id answers the same way as a missing profile
	oid, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgProfileNotFound})
		return
	}
	p, err := h.Store.FindProfileByUser(c.Request.Context(), oid)
	if err != nil {
		h.storeError(c, "find profile", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgProfileNotFound})
		return
	}
	u, _ := h.Store.FindUserByID(c.Request.Context(), oid)
	c.JSON(http.StatusOK, withOwner(*p, u, false))
}

// DeleteAccount godoc
// @Summary Delete the caller's profile and account
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/profile [delete]
func (h *Handler) DeleteAccount(c *gin.Context) {
	owner := ownerID(c)

	// two deletes, no transaction: a failure between them leaves the account
	// without its profile already gone
	if err := h.Store.DeleteProfileByUser(c.Request.Context(), owner); err != nil {
		h.storeError(c, "delete profile", err)
		return
	}
	if err := h.Store.DeleteUser(c.Request.Context(), owner); err != nil {
		h.storeError(c, "delete user", err)
		return
	}

	go h.Events.Publish(c.Request.Context(), eventsExchange, "user.deleted",
		queue.UserDeleted{UserID: owner},
		requestID(c))

	c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
}

type experienceReq struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// AddExperience godoc
// @Summary Prepend a work experience entry
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body experienceReq true "experience"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} map[string]any
// @Router /api/profile/experience [put]
func (h *Handler) AddExperience(c *gin.Context) {
	var in experienceReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Msg: "invalid json"}}})
		return
	}
	if errs := validateExperience(in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	p, err := h.Store.FindProfileByUser(c.Request.Context(), ownerID(c))
	if err != nil {
		h.storeError(c, "find profile", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgNoProfile})
		return
	}

	p.AddExperience(domain.Experience{
		ID:          h.NewID(),
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	})
	if err := h.Store.SaveProfile(c.Request.Context(), p); err != nil {
		h.storeError(c, "save profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteExperience godoc
// @Summary Remove a work experience entry by id
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Param exp_id path string true "entry id"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} map[string]string
// @Router /api/profile/experience/{exp_id} [delete]
func (h *Handler) DeleteExperience(c *gin.Context) {
	p, err := h.Store.FindProfileByUser(c.Request.Context(), ownerID(c))
	if err != nil {
		h.storeError(c, "find profile", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgNoProfile})
		return
	}

	// unknown id is a no-op: the unchanged profile is still a 200
	if p.RemoveExperience(c.Param("exp_id")) {
		if err := h.Store.SaveProfile(c.Request.Context(), p); err != nil {
			h.storeError(c, "save profile", err)
			return
		}
	}
	c.JSON(http.StatusOK, p)
}

type educationReq struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// AddEducation godoc
// @Summary Prepend an education entry
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body educationReq true "education"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} map[string]any
// @Router /api/profile/education [put]
func (h *Handler) AddEducation(c *gin.Context) {
	var in educationReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Msg: "invalid json"}}})
		return
	}
	if errs := validateEducation(in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	p, err := h.Store.FindProfileByUser(c.Request.Context(), ownerID(c))
	if err != nil {
		h.storeError(c, "find profile", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgNoProfile})
		return
	}

	p.AddEducation(domain.Education{
		ID:           h.NewID(),
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	})
	if err := h.Store.SaveProfile(c.Request.Context(), p); err != nil {
		h.storeError(c, "save profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteEducation godoc
// @Summary Remove an education entry by id
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Param edu_id path string true "entry id"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} map[string]string
// @Router /api/profile/education/{edu_id} [delete]
func (h *Handler) DeleteEducation(c *gin.Context) {
	p, err := h.Store.FindProfileByUser(c.Request.Context(), ownerID(c))
	if err != nil {
		h.storeError(c, "find profile", err)
		return
	}
	if p == nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgNoProfile})
		return
	}

	if p.RemoveEducation(c.Param("edu_id")) {
		if err := h.Store.SaveProfile(c.Request.Context(), p); err != nil {
			h.storeError(c, "save profile", err)
			return
		}
	}
	c.JSON(http.StatusOK, p)
}

// GithubRepos godoc
// @Summary Public repos of a github user
// @Tags profile
// @Produce json
// @Param username path string true "github username"
// @Success 200 {array} github.RepoSummary
// @Failure 404 {object} map[string]string
// @Router /api/profile/github/{username} [get]
func (h *Handler) GithubRepos(c *gin.Context) {
	repos, err := h.Github.FetchPublicRepos(c.Request.Context(), c.Param("username"))
	if err != nil {
		var ge *github.GatewayError
		if errors.As(err, &ge) {
			metrics.GithubLookupsTotal.WithLabelValues("gateway_error").Inc()
			log.WithDD(c.Request.Context(), log.L()).Error("github gateway", zap.Error(err))
		} else {
			metrics.GithubLookupsTotal.WithLabelValues("not_found").Inc()
		}
		c.JSON(http.StatusNotFound, gin.H{"msg": "No github profile found"})
		return
	}
	metrics.GithubLookupsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, repos)
}

// storeError: detail goes to the log, the client gets a generic body.
func (h *Handler) storeError(c *gin.Context, op string, err error) {
	log.WithDD(c.Request.Context(), log.L()).Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
}
