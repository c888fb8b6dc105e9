package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/plan-advisor/internal/model"
	"github.com/sells-group/plan-advisor/internal/recommend"
)

var (
	recommendAnswers     string
	recommendAge         int
	recommendGender      string
	recommendDailyAmount int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend products for one set of questionnaire answers",
	Long:  `Reads answers as a JSON object of question id to selected option codes, e.g. {"q1":["advanced_med"]}, from --answers (a file path, or "-" for stdin) and prints the recommendation as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := readAnswers(recommendAnswers, cmd.InOrStdin())
		if err != nil {
			return err
		}

		env, err := initAdvisor(cfg, zap.L())
		if err != nil {
			return err
		}

		res, err := env.Engine.Recommend(cmd.Context(), recommend.Request{
			Answers: answers,
			Profile: profileFromFlags(cmd),
		})
		if err != nil {
			return eris.Wrap(err, "recommend")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func readAnswers(path string, stdin io.Reader) (model.Answers, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case "", "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, eris.Wrap(err, "read answers")
	}

	var answers model.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, eris.Wrap(err, "parse answers")
	}
	if answers == nil {
		return nil, eris.New("answers must be a JSON object")
	}
	return answers, nil
}

// profileFromFlags only sets fields whose flags were given explicitly.
func profileFromFlags(cmd *cobra.Command) model.Profile {
	var p model.Profile
	if cmd.Flags().Changed("age") {
		age := recommendAge
		p.Age = &age
	}
	if cmd.Flags().Changed("daily-amount") {
		amt := recommendDailyAmount
		p.DailyAmount = &amt
	}
	p.Gender = recommendGender
	return p
}

func init() {
	recommendCmd.Flags().StringVar(&recommendAnswers, "answers", "-", `answers JSON file ("-" reads stdin)`)
	recommendCmd.Flags().IntVar(&recommendAge, "age", 0, "requester age")
	recommendCmd.Flags().StringVar(&recommendGender, "gender", "", "requester gender")
	recommendCmd.Flags().IntVar(&recommendDailyAmount, "daily-amount", 0, "desired daily hospitalization amount")
	rootCmd.AddCommand(recommendCmd)
}
