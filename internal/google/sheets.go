package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"fitbot/internal/export"
	"fitbot/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// MembersSheet лист таблицы, который полностью перезаписывается при синхронизации
const MembersSheet = "Members"

type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
	logger        zerolog.Logger
}

func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID string, logger zerolog.Logger) (*SheetsService, error) {
	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return newService(srv, spreadsheetID, logger), nil
}

func newService(srv *sheets.Service, spreadsheetID string, logger zerolog.Logger) *SheetsService {
	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		logger:        logger.With().Str("component", "sheets").Logger(),
	}
}

// TestConnection проверяет доступ к таблице
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, MembersSheet+"!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// ServiceAccountEmail email сервисного аккаунта, которому нужно выдать доступ к таблице
func ServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

// SyncMembers очищает лист и записывает всех участников заново
func (s *SheetsService) SyncMembers(ctx context.Context, members []models.MemberSummary) error {
	values := make([][]interface{}, 0, len(members)+1)

	headers := export.Headers()
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	for _, m := range members {
		values = append(values, export.Row(m))
	}

	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, MembersSheet, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear members sheet: %w", err)
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, export.SheetRange(MembersSheet, len(members)), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update members sheet: %w", err)
	}

	s.logger.Info().Int("members", len(members)).Msg("members sheet synced")
	return nil
}
