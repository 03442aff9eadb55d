package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

const SystemPrompt = "You are an assistant that writes educational quizzes. You answer with JSON only."

// QuestionShape documents one generated question for the model.
type QuestionShape struct {
	Question    string   `json:"question" jsonschema:"minLength=1,description=The question text"`
	Options     []string `json:"options" jsonschema:"minItems=4,maxItems=4,description=Exactly four answer options"`
	Answer      int      `json:"answer" jsonschema:"minimum=0,maximum=3,description=Zero-based index of the correct option"`
	Explanation string   `json:"explanation" jsonschema:"description=A short explanation of the correct answer"`
}

var questionSchema = mustSchema()

func mustSchema() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&QuestionShape{})
	schema.Version = ""
	b, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("llm: question schema: %v", err))
	}
	return string(b)
}

// QuizPrompt embeds the lecture in the fixed quiz instruction template.
func QuizPrompt(lecture string, count int) string {
	if count <= 0 {
		count = 20
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Create a quiz of %d multiple-choice questions, each with exactly 4 options, ", count)
	b.WriteString("based only on the lecture below. ")
	b.WriteString("Reply with a JSON array only, no commentary or text outside the array. ")
	b.WriteString("Each element must match this JSON Schema:\n")
	b.WriteString(questionSchema)
	b.WriteString("\n\"answer\" is the index (0-3) of the correct option and \"explanation\" briefly explains it.\n")
	b.WriteString("Lecture:\n")
	b.WriteString(lecture)
	return b.String()
}
