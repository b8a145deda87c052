package identity

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

// Handler exposes patient, doctor and specialization management over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/patients", h.createPatient)
	g.GET("/patients", h.listPatients)
	g.GET("/patients/:id", h.getPatient)
	g.PUT("/patients/:id", h.updatePatient)
	g.DELETE("/patients/:id", h.deletePatient)

	g.POST("/doctors", h.createDoctor)
	g.GET("/doctors", h.listDoctors)
	g.GET("/doctors/:id", h.getDoctor)
	g.PUT("/doctors/:id", h.updateDoctor)
	g.DELETE("/doctors/:id", h.deleteDoctor)

	g.GET("/specializations", h.listSpecializations)
	g.POST("/specializations", h.createSpecialization)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidProfile):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

type patientRequest struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	DateOfBirth       string `json:"date_of_birth"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	InsuranceProvider string `json:"insurance_provider"`
	InsuranceID       string `json:"insurance_id"`
}

func (r patientRequest) draft() (PatientDraft, error) {
	dob, err := time.Parse("2006-01-02", r.DateOfBirth)
	if err != nil {
		return PatientDraft{}, echo.NewHTTPError(http.StatusBadRequest, "invalid date_of_birth")
	}
	return PatientDraft{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Email:             r.Email,
		DateOfBirth:       dob,
		Phone:             r.Phone,
		Address:           r.Address,
		InsuranceProvider: r.InsuranceProvider,
		InsuranceID:       r.InsuranceID,
	}, nil
}

func (h *Handler) createPatient(c echo.Context) error {
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	draft, err := req.draft()
	if err != nil {
		return err
	}
	actor := auth.RoleFromContext(c.Request().Context())
	p, err := h.svc.CreatePatient(c.Request().Context(), actor, draft)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) getPatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actor := auth.RoleFromContext(c.Request().Context())
	p, err := h.svc.GetPatient(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) updatePatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	draft, err := req.draft()
	if err != nil {
		return err
	}
	actor := auth.RoleFromContext(c.Request().Context())
	p, err := h.svc.UpdatePatient(c.Request().Context(), actor, id, draft)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actor := auth.RoleFromContext(c.Request().Context())
	if err := h.svc.DeletePatient(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listPatients(c echo.Context) error {
	actor := auth.RoleFromContext(c.Request().Context())
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), actor, p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

type doctorRequest struct {
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Biography       string   `json:"biography"`
	Specializations []string `json:"specializations"`
}

func (r doctorRequest) draft() DoctorDraft {
	return DoctorDraft{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Biography:       r.Biography,
		Specializations: r.Specializations,
	}
}

func (h *Handler) createDoctor(c echo.Context) error {
	var req doctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.RoleFromContext(c.Request().Context())
	d, err := h.svc.CreateDoctor(c.Request().Context(), actor, req.draft())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) getDoctor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) updateDoctor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req doctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.RoleFromContext(c.Request().Context())
	d, err := h.svc.UpdateDoctor(c.Request().Context(), actor, id, req.draft())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) deleteDoctor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actor := auth.RoleFromContext(c.Request().Context())
	if err := h.svc.DeleteDoctor(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listDoctors(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), c.QueryParam("specialization"), p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Doctor{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) listSpecializations(c echo.Context) error {
	items, err := h.svc.ListSpecializations(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Specialization{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) createSpecialization(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.RoleFromContext(c.Request().Context())
	sp, err := h.svc.CreateSpecialization(c.Request().Context(), actor, req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, sp)
}
