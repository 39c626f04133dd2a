package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/davicafu/participantes/internal/participant/domain"
)

const (
	ExportSheet       = "Participantes"
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	columnMargin   = 2
	maxColumnWidth = 50
)

// Export es la hoja generada en memoria.
type Export struct {
	Filename string
	Content  []byte
	Rows     int
}

type ExportService struct {
	repo      domain.ParticipantRepository
	includeID bool
	log       *zap.Logger
	now       func() time.Time
}

func NewExportService(repo domain.ParticipantRepository, includeID bool, log *zap.Logger) *ExportService {
	return &ExportService{repo: repo, includeID: includeID, log: log, now: time.Now}
}

func (s *ExportService) WithClock(now func() time.Time) *ExportService {
	s.now = now
	return s
}

// Headers devuelve las cabeceras en el orden fijo de las columnas.
func (s *ExportService) Headers() []string {
	headers := []string{"Nombre", "Email", "Teléfono", "Género", "Empresa", "Comentarios", "Fecha de Inscripción"}
	if s.includeID {
		headers = append([]string{"ID"}, headers...)
	}
	return headers
}

// Export genera el .xlsx con una fila por participante en orden de inscripción.
func (s *ExportService) Export(ctx context.Context) (*Export, error) {
	participants, err := s.repo.List(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrStoreCorrupt) {
			return nil, err
		}
		s.log.Warn("⚠️ Almacén corrupto, nada que exportar", zap.Error(err))
		participants = nil
	}
	if len(participants) == 0 {
		return nil, domain.ErrNoDataToExport
	}

	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].ID < participants[j].ID
	})

	headers := s.Headers()
	rows := make([][]string, 0, len(participants))
	for _, p := range participants {
		row := []string{p.Nombre, p.Email, p.Telefono, p.Genero, p.Empresa, p.Comentarios, p.FechaInscripcion}
		if s.includeID {
			row = append([]string{strconv.FormatInt(p.ID, 10)}, row...)
		}
		rows = append(rows, row)
	}

	content, err := s.render(headers, rows, participants)
	if err != nil {
		s.log.Error("Failed to render spreadsheet", zap.Error(err))
		return nil, err
	}

	return &Export{
		Filename: fmt.Sprintf("participantes_%s.xlsx", s.now().Format("20060102_1504")),
		Content:  content,
		Rows:     len(participants),
	}, nil
}

func (s *ExportService) render(headers []string, rows [][]string, participants []*domain.Participant) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	widths := make([]int, len(headers))
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
		widths[i] = utf8.RuneCountInString(h)
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &headerRow); err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(ExportSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for r, row := range rows {
		values := make([]interface{}, len(row))
		for c, v := range row {
			values[c] = v
			if n := utf8.RuneCountInString(v); n > widths[c] {
				widths[c] = n
			}
		}
		if s.includeID {
			values[0] = participants[r].ID
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(ExportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := w + columnMargin
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(ExportSheet, col, col, float64(width)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
