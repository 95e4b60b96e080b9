package services

import (
	"fmt"

	"delivery_manager/internal/metrics"
	"delivery_manager/internal/repository"
	"delivery_manager/pkg/whatsapp"
)

// NotifyService pushes period reports back to the originating WhatsApp
// groups.
type NotifyService interface {
	SendGroupReport(groupID uint, query ReportQuery) error
}

type notifyService struct {
	client        *whatsapp.Client
	groupRepo     repository.GroupRepository
	reportService ReportService
}

func NewNotifyService(client *whatsapp.Client, groupRepo repository.GroupRepository, reportService ReportService) NotifyService {
	return &notifyService{
		client:        client,
		groupRepo:     groupRepo,
		reportService: reportService,
	}
}

func (s *notifyService) SendGroupReport(groupID uint, query ReportQuery) error {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return fmt.Errorf("group not found: %w", err)
	}

	// Reports pushed to a group are always scoped to that group.
	query.AgencyID = &group.AgencyID
	query.GroupID = &group.ID

	result, err := s.reportService.GetStats(query)
	if err != nil {
		return err
	}

	message := FormatGroupReport(group.Name, result)
	if _, err := s.client.SendGroupMessage(group.GroupJID, message); err != nil {
		return fmt.Errorf("failed to send report to group %s: %w", group.Name, err)
	}
	metrics.GroupReportsSentTotal.Inc()
	return nil
}
