package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fitbot/internal/models"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// SheetMembers имя листа с участниками
const SheetMembers = "Участники"

const dateLayout = "02.01.2006 15:04"

var statusNames = map[models.Status]string{
	models.StatusPending:  "На проверке",
	models.StatusApproved: "Одобрен",
	models.StatusRejected: "Отклонен",
	models.StatusBanned:   "Черный список",
}

// MembersExporter пишет выгрузку участников в xlsx
type MembersExporter struct {
	dir    string
	logger zerolog.Logger
}

func NewMembersExporter(dir string, logger zerolog.Logger) *MembersExporter {
	return &MembersExporter{dir: dir, logger: logger.With().Str("component", "export").Logger()}
}

// Headers заголовки колонок: анкета, затем суммы по категориям за все время
func Headers() []string {
	headers := []string{"Telegram ID", "ФИО", "Телефон", "Город", "Возраст", "Статус", "Дата регистрации", "Последняя запись"}
	for _, c := range models.Categories {
		headers = append(headers, c.Label())
	}
	return headers
}

// Row значения строки участника в порядке Headers
func Row(m models.MemberSummary) []interface{} {
	last := ""
	if m.User.LastActivityAt != nil {
		last = m.User.LastActivityAt.UTC().Format(dateLayout)
	}
	row := []interface{}{
		m.User.UserID,
		m.User.FullName,
		m.User.Phone,
		m.User.City,
		m.User.Age,
		StatusName(m.User.Status),
		m.User.CreatedAt.UTC().Format(dateLayout),
		last,
	}
	for _, c := range models.Categories {
		row = append(row, m.Totals[c])
	}
	return row
}

func StatusName(s models.Status) string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

// ExportMembers создает файл и возвращает путь к нему
func (e *MembersExporter) ExportMembers(ctx context.Context, members []models.MemberSummary, now time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetMembers)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return "", fmt.Errorf("error creating style: %w", err)
	}

	headers := Headers()
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetMembers, cell, h); err != nil {
			return "", err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(SheetMembers, "A1", lastHeader, headerStyle); err != nil {
		return "", err
	}

	for i, m := range members {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := Row(m)
		if err := f.SetSheetRow(SheetMembers, cell, &row); err != nil {
			return "", fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(SheetMembers, "A", "A", 14)
	_ = f.SetColWidth(SheetMembers, "B", "B", 30)
	_ = f.SetColWidth(SheetMembers, "C", lastCol, 18)
	_ = f.SetPanes(SheetMembers, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("members_%s.xlsx", now.UTC().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file", filePath).Int("members", len(members)).Msg("excel file created")
	return filePath, nil
}

// SheetRange диапазон A1-нотации под заголовок и rows строк данных
func SheetRange(sheet string, rows int) string {
	lastCol, _ := excelize.ColumnNumberToName(len(Headers()))
	return fmt.Sprintf("%s!A1:%s%d", sheet, lastCol, rows+1)
}
