package ingest

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"peoplestats/domain/evaluation"
	"peoplestats/internal"
	"peoplestats/internal/errors"
)

// ResultFileName is the per-year evaluation file inside a dataset tree.
const ResultFileName = "resultado.json"

// The export pipeline changed field names over the years. Both spellings of
// every field are accepted and mapped onto the canonical types, so the
// engines never deal with raw JSON.
type rawAssessment struct {
	Evaluator        string `json:"avaliador"`
	IndividualPlural []int  `json:"frequencias_colaborador"`
	Individual       []int  `json:"frequencia_colaborador"`
	GroupPlural      []int  `json:"frequencias_grupo"`
	Group            []int  `json:"frequencia_grupo"`
}

func (a rawAssessment) individual() []int {
	if a.IndividualPlural != nil {
		return a.IndividualPlural
	}
	return a.Individual
}

func (a rawAssessment) group() []int {
	if a.GroupPlural != nil {
		return a.GroupPlural
	}
	return a.Group
}

type rawBehavior struct {
	Name            string          `json:"comportamento"`
	Consolidado     []rawAssessment `json:"consolidado"`
	AvaliacoesGrupo []rawAssessment `json:"avaliacoes_grupo"`
}

func (b rawBehavior) assessments() []rawAssessment {
	if b.Consolidado != nil {
		return b.Consolidado
	}
	return b.AvaliacoesGrupo
}

type rawDriver struct {
	Name      string        `json:"direcionador"`
	Behaviors []rawBehavior `json:"comportamentos"`
}

// rawDocument covers both the bare export payload and the wrapped
// {"success": ..., "data": {...}} envelope, which some exports nest twice.
type rawDocument struct {
	Success *bool        `json:"success"`
	Data    *rawDocument `json:"data"`
	Concept string       `json:"conceito_ciclo_filho_descricao"`
	Drivers []rawDriver  `json:"direcionadores"`
}

// unwrap walks nested data envelopes down to the payload carrying the
// drivers. A document with no drivers anywhere unwraps to its deepest level.
func (d *rawDocument) unwrap() (*rawDocument, bool) {
	doc := d
	for {
		if doc.Success != nil && !*doc.Success {
			return doc, false
		}
		if len(doc.Drivers) > 0 || doc.Data == nil {
			return doc, true
		}
		doc = doc.Data
	}
}

// Decoder maps raw evaluation exports onto canonical records.
type Decoder struct {
	log *internal.Logger
}

// NewDecoder creates a decoder.
func NewDecoder(log *internal.Logger) *Decoder {
	return &Decoder{log: log}
}

// Decode reads one export document and produces the canonical record for the
// given (person, year). A document marked unsuccessful or carrying no drivers
// fails with a DECODE_ERROR.
func (d *Decoder) Decode(r io.Reader, person, year string) (evaluation.Evaluation, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return evaluation.Evaluation{}, errors.DecodeError("malformed evaluation document", err)
	}

	payload, ok := doc.unwrap()
	if !ok {
		return evaluation.Evaluation{}, errors.DecodeError("evaluation document marked unsuccessful", nil)
	}
	if len(payload.Drivers) == 0 {
		return evaluation.Evaluation{}, errors.DecodeError("evaluation document has no drivers", nil)
	}

	rec := evaluation.Evaluation{
		Person:  person,
		Year:    year,
		Concept: payload.Concept,
	}
	for _, rd := range payload.Drivers {
		driver := evaluation.Driver{Name: rd.Name}
		for _, rb := range rd.Behaviors {
			behavior := evaluation.Behavior{Name: rb.Name}
			for _, ra := range rb.assessments() {
				behavior.Assessments = append(behavior.Assessments, evaluation.Assessment{
					Evaluator:  ra.Evaluator,
					Individual: evaluation.FrequencyVector(ra.individual()).Lenient(),
					Group:      evaluation.FrequencyVector(ra.group()).Lenient(),
				})
			}
			driver.Behaviors = append(driver.Behaviors, behavior)
		}
		rec.Drivers = append(rec.Drivers, driver)
	}
	return rec, nil
}

// DecodeFile decodes a single export file.
func (d *Decoder) DecodeFile(path, person, year string) (evaluation.Evaluation, error) {
	f, err := os.Open(path)
	if err != nil {
		return evaluation.Evaluation{}, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return d.Decode(f, person, year)
}

// DecodeDataset walks a <root>/<person>/<year>/resultado.json tree and decodes
// every record it finds. A malformed file is logged and skipped; it never
// fails the whole load.
func (d *Decoder) DecodeDataset(root string) ([]evaluation.Evaluation, error) {
	people, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset root %s", root)
	}

	var records []evaluation.Evaluation
	for _, personDir := range people {
		if !personDir.IsDir() {
			continue
		}
		person := personDir.Name()

		years, err := os.ReadDir(filepath.Join(root, person))
		if err != nil {
			d.log.Warn("skipping person %s: %v", person, err)
			continue
		}
		for _, yearDir := range years {
			if !yearDir.IsDir() {
				continue
			}
			year := yearDir.Name()
			path := filepath.Join(root, person, year, ResultFileName)
			if _, err := os.Stat(path); err != nil {
				continue
			}

			rec, err := d.DecodeFile(path, person, year)
			if err != nil {
				d.log.Warn("skipping %s/%s: %v", person, year, err)
				continue
			}
			records = append(records, rec)
		}
	}
	return records, nil
}
