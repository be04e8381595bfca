package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/diabrisk/internal/application/dto"
	"github.com/turtacn/diabrisk/internal/domain/models"
	"github.com/turtacn/diabrisk/internal/interfaces/reporttext"
	"github.com/turtacn/diabrisk/pkg/errors"
)

var interactive bool

// assessCmd runs one assessment and prints the report.
var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run an assessment read from stdin",
	Long: `Reads height (cm), weight (kg) and then one answer per question as
whitespace separated numbers from stdin, records the assessment and prints
the risk report. With --interactive each value is prompted for.`,
	Example: `  echo "170 70 2 1 1 2 1 2 2 3 3 2" | diabrisk assess
  diabrisk assess --interactive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		var req models.AssessmentRequest
		if interactive {
			req, err = promptAssessment(cmd.InOrStdin(), cmd.ErrOrStderr(), app.Service.Questions())
		} else {
			req, err = reporttext.ParseInput(cmd.InOrStdin())
		}
		if err != nil {
			return err
		}

		report, err := app.Service.Assess(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, dto.NewEvaluateResponse(report, app.Config.Report.MaxRiskFactors))
		}
		return reporttext.Format(out, report, app.Config.Report.MaxRiskFactors)
	},
}

func init() {
	assessCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for each value")
	rootCmd.AddCommand(assessCmd)
}

// promptAssessment asks for the measurements and every question in turn.
// An option the question does not define is reported and asked again.
func promptAssessment(in io.Reader, prompts io.Writer, catalogue *dto.QuestionsResponse) (models.AssessmentRequest, error) {
	var req models.AssessmentRequest
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)

	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", errors.ErrInvalidRequest("input ended before the assessment was complete")
		}
		return sc.Text(), nil
	}
	readFloat := func(label string) (float64, error) {
		fmt.Fprintf(prompts, "%s: ", label)
		tok, err := next()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, errors.ErrInvalidRequest(fmt.Sprintf("invalid %s %q", strings.ToLower(label), tok))
		}
		return v, nil
	}

	var err error
	if req.Body.HeightCm, err = readFloat("Height (cm)"); err != nil {
		return req, err
	}
	if req.Body.WeightKg, err = readFloat("Weight (kg)"); err != nil {
		return req, err
	}

	for _, q := range catalogue.Questions {
		valid := make(map[int]bool, len(q.Options))
		labels := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			valid[o.Value] = true
			labels = append(labels, fmt.Sprintf("%d:%s", o.Value, o.Label))
		}

		for {
			fmt.Fprintf(prompts, "\nQ%d: %s (%s)\nEnter option: ", q.ID, q.Text, strings.Join(labels, " "))
			tok, err := next()
			if err != nil {
				return req, err
			}
			v, convErr := strconv.Atoi(tok)
			if convErr != nil || !valid[v] {
				fmt.Fprintln(prompts, "Invalid option. Please enter a valid choice.")
				continue
			}
			req.Answers = append(req.Answers, v)
			break
		}
	}
	return req, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
