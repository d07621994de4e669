// Package file supplies question banks from YAML documents on disk or
// compiled into the binary.
package file

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"quizshow/internal/domain"
)

// DefaultBank is the name of the bank compiled into the binary.
const DefaultBank = "pme"

//go:embed banks/*.yaml
var embedded embed.FS

type bankFile struct {
	Name       string                  `yaml:"name"`
	Title      string                  `yaml:"title"`
	TrueFalse  []domain.QuestionRecord `yaml:"true_false"`
	FillBlank  []domain.QuestionRecord `yaml:"fill_blank"`
	Structured []domain.QuestionRecord `yaml:"structured"`
}

// BankLoader reads <dir>/<name>.yaml, falling back to the embedded banks.
type BankLoader struct {
	dir string
}

// NewBankLoader returns a loader for dir. An empty dir serves embedded banks only.
func NewBankLoader(dir string) *BankLoader {
	return &BankLoader{dir: dir}
}

func (l *BankLoader) LoadBank(_ context.Context, name string) (domain.Bank, error) {
	if l.dir != "" {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(l.dir, name+ext)
			bank, err := ReadBank(path)
			if err == nil {
				return bank, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return domain.Bank{}, err
			}
		}
	}

	data, err := embedded.ReadFile("banks/" + name + ".yaml")
	if err != nil {
		return domain.Bank{}, fmt.Errorf("%w: %s", domain.ErrBankNotFound, name)
	}
	return ParseBank(data)
}

// ReadBank parses the bank document at path.
func ReadBank(path string) (domain.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read bank: %w", err)
	}
	bank, err := ParseBank(data)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("%s: %w", path, err)
	}
	return bank, nil
}

// ParseBank decodes and validates a single YAML bank document.
func ParseBank(data []byte) (domain.Bank, error) {
	var doc bankFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return domain.Bank{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return domain.Bank{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return domain.Bank{}, fmt.Errorf("parse yaml: %w", err)
	}

	bank := domain.Bank{Name: doc.Name, Title: doc.Title}
	sections := [domain.RoundCount][]domain.QuestionRecord{doc.TrueFalse, doc.FillBlank, doc.Structured}
	for i, records := range sections {
		kind := domain.RoundKind(i + 1)
		for _, rec := range records {
			if rec.Kind == "" {
				rec.Kind = kind.String()
			}
			if rec.Kind != kind.String() {
				return domain.Bank{}, fmt.Errorf("%w: question %d is %s inside the %s section", domain.ErrInvalidBank, rec.ID, rec.Kind, kind)
			}
			q, err := rec.Question()
			if err != nil {
				return domain.Bank{}, err
			}
			bank.Rounds[i] = append(bank.Rounds[i], q)
		}
	}
	if err := bank.Validate(); err != nil {
		return domain.Bank{}, err
	}
	return bank, nil
}

// EncodeBank renders bank in the document format ParseBank reads.
func EncodeBank(bank domain.Bank) ([]byte, error) {
	doc := bankFile{Name: bank.Name, Title: bank.Title}
	for i, qs := range bank.Rounds {
		for _, q := range qs {
			rec := domain.RecordOf(q)
			rec.Kind = ""
			switch i {
			case 0:
				doc.TrueFalse = append(doc.TrueFalse, rec)
			case 1:
				doc.FillBlank = append(doc.FillBlank, rec)
			default:
				doc.Structured = append(doc.Structured, rec)
			}
		}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
