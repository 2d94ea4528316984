package maintenance

import (
	"errors"
	"net/mail"
	"time"

	"github.com/dartalib/backend/core"
)

var ErrNotFound = errors.New("maintenance request not found")

type (
	Repository interface {
		CreateRequest(req Request) (Request, error)
		QueryAllRequests() ([]Request, error)
		GetRequestByID(id string) (Request, error)
		QueryRequestsByStatus(status string) ([]Request, error)
		UpdateRequest(req Request) (Request, error)
		DeleteRequestsByID(ids ...string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

func (svc *Service) Create(nr NewRequest, reportedBy string) (Request, error) {
	now := time.Now().UTC()
	req := Request{
		RoomNumber:  nr.RoomNumber,
		Description: nr.Description,
		Priority:    nr.Priority,
		Status:      StatusOpen,
		ReportedBy:  reportedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	req, err := svc.repo.CreateRequest(req)
	if err != nil {
		return Request{}, err
	}
	if req.Priority == PriorityHigh {
		svc.sendAlertMail(req)
	}
	return req, nil
}

func (svc *Service) sendAlertMail(req Request) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: core.Conf.AdminEmail}},
		Subject:      "High-priority maintenance request",
		TemplateName: core.TmplMaintenanceAlert,
		TemplateData: req,
	})
}

func (svc *Service) QueryAll() ([]Request, error) {
	return svc.repo.QueryAllRequests()
}

func (svc *Service) GetByID(id string) (Request, error) {
	return svc.repo.GetRequestByID(id)
}

func (svc *Service) QueryByStatus(status string) ([]Request, error) {
	return svc.repo.QueryRequestsByStatus(status)
}

func (svc *Service) Update(id string, ur UpdateRequest) (Request, error) {
	orig, err := svc.repo.GetRequestByID(id)
	if err != nil {
		return Request{}, err
	}
	if err := ur.Validate(orig); err != nil {
		return Request{}, err
	}
	orig.Status = ur.Status
	orig.Priority = ur.Priority
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRequest(orig)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteRequestsByID(ids...)
}
