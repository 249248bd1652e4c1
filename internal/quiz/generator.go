package quiz

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/SaieshPriolkar/coinvision/internal/models"
)

const DefaultTopic = "world currencies"

// Generator fronts the Gemini API for quiz and image generation.
type Generator struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

func NewGenerator(ctx context.Context, apiKey, textModel, imageModel string) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Generator{
		client:     client,
		textModel:  textModel,
		imageModel: imageModel,
	}, nil
}

func (g *Generator) Model() string { return g.textModel }

func quizPrompt(topic string) string {
	return fmt.Sprintf(`Generate 5 multiple-choice questions about %s.
Each question should have:
- a "question" field (string),
- an "options" field (array of 4 strings),
- an "answer" field (the correct option from the options array).
Return the result as a valid JSON array. Do not include any extra explanation or text before or after the array. Format:
[
  {
    "question": "Which country uses the Yen?",
    "options": ["China", "Japan", "Thailand", "Vietnam"],
    "answer": "Japan"
  },
  ...
]`, topic)
}

// GenerateQuiz asks the text model for a 5-question quiz on topic and
// parses the JSON array out of the response.
func (g *Generator) GenerateQuiz(ctx context.Context, topic string) ([]models.QuizQuestion, error) {
	if topic == "" {
		topic = DefaultTopic
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(quizPrompt(topic)), nil)
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	questions, err := ParseQuizJSON(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("quiz response from %s: %w", g.textModel, err)
	}
	return questions, nil
}

// ParseQuizJSON extracts the JSON array literal from a model response
// (delimited by the first '[' and the last ']') and validates it. The model
// often wraps the array in prose or a code fence; everything outside the
// brackets is ignored. A malformed payload is an error, never a partial
// quiz.
func ParseQuizJSON(text string) ([]models.QuizQuestion, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &questions); err != nil {
		return nil, fmt.Errorf("parse quiz array: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("empty quiz array")
	}

	for i, q := range questions {
		if q.Question == "" {
			return nil, fmt.Errorf("question %d is empty", i)
		}
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d has %d options, want 4", i, len(q.Options))
		}
		valid := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("question %d answer %q not among options", i, q.Answer)
		}
	}
	return questions, nil
}

// GenerateImage produces one image for the prompt and returns it as a
// base64 data URL, ready for an <img> src.
func (g *Generator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", fmt.Errorf("no image in response from %s", g.imageModel)
	}

	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.ImageBytes), nil
}
