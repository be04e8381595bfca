package reporttext

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/pkg/errors"
)

// ParseInput reads whitespace separated numbers: height (cm), weight (kg),
// then every answer in question order. The answer count is not checked here;
// the scoring engine rejects a wrong count.
func ParseInput(r io.Reader) (models.AssessmentRequest, error) {
	var req models.AssessmentRequest

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var measurements []float64
	for sc.Scan() {
		tok := sc.Text()
		if len(measurements) < 2 {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return req, errors.ErrInvalidRequest(fmt.Sprintf("invalid measurement %q", tok)).WithCause(err)
			}
			measurements = append(measurements, v)
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return req, errors.ErrValidation(fmt.Sprintf("answer %d is not a number: %q", len(req.Answers)+1, tok)).WithCause(err)
		}
		req.Answers = append(req.Answers, v)
	}
	if err := sc.Err(); err != nil {
		return req, errors.ErrInvalidRequest("failed to read input").WithCause(err)
	}
	if len(measurements) < 2 {
		return req, errors.ErrInvalidRequest("height and weight are required")
	}

	req.Body = models.Anthropometrics{HeightCm: measurements[0], WeightKg: measurements[1]}
	return req, nil
}
