// Package importer stages consignment sheets from CSV or tagged text
// and applies a staged batch to the ledger.
//
// Importing is a two-step flow. A parse stages normalized records in
// the session together with a checksum of the batch; applying requires
// that checksum back, which guards against committing a batch other
// than the one last reviewed.
package importer

import (
	"encoding/csv"
	"hash/crc32"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/jkovac/artshow/internal/ledger"
	"github.com/jkovac/artshow/internal/model"
	"github.com/jkovac/artshow/internal/session"
)

// Service stages and applies item imports.
type Service struct {
	ledger   *ledger.Service
	sessions *session.Store
}

func New(l *ledger.Service, s *session.Store) *Service {
	return &Service{ledger: l, sessions: s}
}

// CSV column order of a consignment sheet. Missing trailing columns are
// treated as absent fields.
var csvColumns = []func(*model.RawImportFields, *string){
	func(r *model.RawImportFields, v *string) { r.Number = v },
	func(r *model.RawImportFields, v *string) { r.Owner = v },
	func(r *model.RawImportFields, v *string) { r.Author = v },
	func(r *model.RawImportFields, v *string) { r.Title = v },
	func(r *model.RawImportFields, v *string) { r.Medium = v },
	func(r *model.RawImportFields, v *string) { r.Note = v },
	func(r *model.RawImportFields, v *string) { r.InitialAmount = v },
	func(r *model.RawImportFields, v *string) { r.Charity = v },
}

// ImportCSV parses a consignment sheet in CSV form and stages it in the
// session, replacing any previous staged batch.
func (s *Service) ImportCSV(sessionID string, r io.Reader, headerRow bool) ([]model.ImportedItemRecord, uint32, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var records []model.ImportedItemRecord
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		line++
		if headerRow && line == 1 {
			continue
		}

		var raw model.RawImportFields
		for i, set := range csvColumns {
			if i >= len(row) {
				break
			}
			v := row[i]
			set(&raw, &v)
		}
		records = append(records, processRecord(raw))
	}

	checksum := s.postProcess(sessionID, records)
	slog.Info("importCSV: batch staged", "records", len(records), "checksum", checksum)
	return records, checksum, nil
}

// Tags of the hand-typed consignment format. A new record starts at
// every A) line.
var textTags = []struct {
	tag string
	set func(*model.RawImportFields, *string)
}{
	{"A)", func(r *model.RawImportFields, v *string) { r.Number = v }},
	{"B)", func(r *model.RawImportFields, v *string) { r.Author = v }},
	{"C)", func(r *model.RawImportFields, v *string) { r.Title = v }},
	{"D)", func(r *model.RawImportFields, v *string) { r.InitialAmount = v }},
	{"E)", func(r *model.RawImportFields, v *string) { r.Charity = v }},
}

// extractTaggedValue finds a known tag in a line after skipping any
// leading decoration. A tag without a colon yields an empty value.
func extractTaggedValue(line string) (tagIndex int, value string, ok bool) {
	start := 0
	for _, r := range line {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			break
		}
		start += len(string(r))
	}
	line = line[start:]
	if line == "" {
		return 0, "", false
	}

	for i, t := range textTags {
		if strings.HasPrefix(line, t.tag) {
			colon := strings.Index(line, ":")
			if colon < 0 {
				return i, "", true
			}
			return i, strings.Trim(line[colon+1:], " \t\r\n"), true
		}
	}
	return 0, "", false
}

// ImportText parses a hand-typed consignment list in the tagged A)-E)
// format and stages it in the session.
func (s *Service) ImportText(sessionID, text string) ([]model.ImportedItemRecord, uint32) {
	var records []model.ImportedItemRecord
	var raw model.RawImportFields
	open := false

	for _, line := range strings.Split(text, "\n") {
		tagIndex, value, ok := extractTaggedValue(line)
		if !ok {
			continue
		}
		if tagIndex == 0 && open {
			records = append(records, processRecord(raw))
			raw = model.RawImportFields{}
		}
		v := value
		textTags[tagIndex].set(&raw, &v)
		open = true
	}
	if open {
		records = append(records, processRecord(raw))
	}

	checksum := s.postProcess(sessionID, records)
	slog.Info("importText: batch staged", "records", len(records), "checksum", checksum)
	return records, checksum
}

func rawValue(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	v := strings.TrimSpace(*p)
	return v, v != ""
}

// processRecord normalizes one raw record and checks its internal
// consistency, recording the first failure in the record's result.
func processRecord(raw model.RawImportFields) model.ImportedItemRecord {
	rec := model.ImportedItemRecord{Raw: raw, Result: model.ResultSuccess}

	if v, ok := rawValue(raw.Number); ok {
		n, ok := model.ParseInt(v)
		if !ok {
			rec.Result = model.ResultInputError
			return rec
		}
		rec.Number = &n
	}
	if v, ok := rawValue(raw.Owner); ok {
		n, ok := model.ParseInt(v)
		if !ok {
			rec.Result = model.ResultInputError
			return rec
		}
		rec.Owner = &n
	}
	rec.Author, _ = rawValue(raw.Author)
	rec.Title, _ = rawValue(raw.Title)
	rec.Medium, _ = rawValue(raw.Medium)
	rec.Note, _ = rawValue(raw.Note)
	if v, ok := rawValue(raw.InitialAmount); ok {
		d, ok := model.ParseDecimal(v)
		if !ok {
			rec.Result = model.ResultInvalidAmount
			return rec
		}
		rec.InitialAmount = &d
	}
	if v, ok := rawValue(raw.Charity); ok {
		n, ok := model.ParseInt(v)
		if !ok {
			rec.Result = model.ResultInvalidCharity
			return rec
		}
		rec.Charity = &n
	}

	rec.Result = checkRecordConsistency(rec)
	if rec.Result != model.ResultSuccess {
		slog.Error("processRecord: record failed consistency check", "result", rec.Result)
	}
	return rec
}

func checkRecordConsistency(rec model.ImportedItemRecord) model.Result {
	if rec.Author == "" {
		return model.ResultInvalidAuthor
	}
	if rec.Title == "" {
		return model.ResultInvalidTitle
	}
	if rec.InitialAmount == nil && rec.Charity == nil {
		return model.ResultSuccess
	}
	if rec.InitialAmount == nil || rec.Charity == nil {
		return model.ResultIncompleteSaleInfo
	}
	if rec.InitialAmount.Sign() < 0 {
		return model.ResultInvalidAmount
	}
	if *rec.Charity < 0 || *rec.Charity > 100 {
		return model.ResultInvalidCharity
	}
	return model.ResultSuccess
}

// recordDigest is a digest of one record's normalized content. Digests
// of a batch are combined by XOR, so the batch checksum does not depend
// on record order.
func recordDigest(rec model.ImportedItemRecord) uint32 {
	var b strings.Builder
	writeField := func(v string) {
		b.WriteString(v)
		b.WriteByte(0)
	}
	if rec.Number != nil {
		writeField(strconv.Itoa(*rec.Number))
	} else {
		writeField("")
	}
	if rec.Owner != nil {
		writeField(strconv.Itoa(*rec.Owner))
	} else {
		writeField("")
	}
	writeField(rec.Author)
	writeField(rec.Title)
	writeField(rec.Medium)
	writeField(rec.Note)
	if rec.InitialAmount != nil {
		writeField(rec.InitialAmount.String())
	} else {
		writeField("")
	}
	if rec.Charity != nil {
		writeField(strconv.Itoa(*rec.Charity))
	} else {
		writeField("")
	}
	return crc32.ChecksumIEEE([]byte(b.String()))
}

func batchChecksum(records []model.ImportedItemRecord) uint32 {
	var checksum uint32
	for _, rec := range records {
		checksum ^= recordDigest(rec)
	}
	return checksum
}

func matchStrings(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func matchRecords(a, b model.ImportedItemRecord) bool {
	if a.Result != model.ResultSuccess || b.Result != model.ResultSuccess {
		return false
	}
	if matchStrings(a.Author, b.Author) && matchStrings(a.Title, b.Title) {
		return true
	}
	return a.Number != nil && b.Number != nil && *a.Number == *b.Number
}

// tagDuplicates marks every pair of records that describe the same item,
// either by author and title or by import number. Both sides of a pair
// are tagged so the operator sees the whole conflict.
func tagDuplicates(records []model.ImportedItemRecord) {
	duplicate := make(map[int]bool)
	for i := 0; i < len(records)-1; i++ {
		if records[i].Result != model.ResultSuccess {
			continue
		}
		for j := i + 1; j < len(records); j++ {
			if matchRecords(records[i], records[j]) {
				slog.Info("tagDuplicates: duplicate records in import",
					"first", i, "second", j, "author", records[i].Author, "title", records[i].Title)
				duplicate[i] = true
				duplicate[j] = true
			}
		}
	}
	for i := range duplicate {
		records[i].Result = model.ResultDuplicateItem
	}
}

// postProcess computes the batch checksum over the records as parsed,
// tags duplicates, and stages the batch. The checksum is taken before
// duplicate tagging so it identifies the input, not the verdicts.
func (s *Service) postProcess(sessionID string, records []model.ImportedItemRecord) uint32 {
	s.sessions.DropImport(sessionID)
	checksum := batchChecksum(records)
	tagDuplicates(records)
	s.sessions.StageImport(sessionID, records, checksum)
	return checksum
}

// OwnerDefined reports whether every record of a batch carries an
// owner. A batch without owners needs a default owner at apply time.
func OwnerDefined(records []model.ImportedItemRecord) bool {
	for _, rec := range records {
		if rec.Owner == nil {
			return false
		}
	}
	return true
}
