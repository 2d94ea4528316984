package attendance

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("attendance record not found")

type (
	Repository interface {
		CreateRecord(rec Record) (Record, error)
		QueryAllRecords() ([]Record, error)
		GetRecordByID(id string) (Record, error)
		// GetRecordByStudentDate looks a record up by its natural key.
		GetRecordByStudentDate(studentID, date string) (Record, error)
		FilterRecords(filter QueryFilter) ([]Record, error)
		UpdateRecord(rec Record) (Record, error)
		DeleteRecordsByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Mark upserts the attendance status for (student, day): if a record already
// exists for that day its status is overwritten in place, otherwise a new
// record is appended. This is the only write path for attendance.
func (svc *Service) Mark(md MarkDay) (Record, error) {
	now := time.Now().UTC()
	if rec, err := svc.repo.GetRecordByStudentDate(md.StudentID, md.Date); err == nil {
		rec.Status = md.Status
		if md.Remark != "" {
			rec.Remark = md.Remark
		}
		rec.UpdatedAt = now
		return svc.repo.UpdateRecord(rec)
	} else if err != ErrNotFound {
		return Record{}, err
	}
	rec := Record{
		StudentID: md.StudentID,
		Date:      md.Date,
		Status:    md.Status,
		Remark:    md.Remark,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateRecord(rec)
}

func (svc *Service) QueryAll() ([]Record, error) {
	return svc.repo.QueryAllRecords()
}

func (svc *Service) GetByID(id string) (Record, error) {
	return svc.repo.GetRecordByID(id)
}

func (svc *Service) GetByStudentDate(studentID, date string) (Record, error) {
	return svc.repo.GetRecordByStudentDate(studentID, date)
}

func (svc *Service) Filter(filter QueryFilter) ([]Record, error) {
	return svc.repo.FilterRecords(filter)
}

func (svc *Service) Delete(ids ...string) error {
	return svc.repo.DeleteRecordsByID(ids...)
}
