package services

import (
	"math/rand"

	"github.com/SVPraveen1/spotmies-learning-path/internal/models"
)

// QuizDefinition is a static quiz for one subject: metadata plus a fixed
// question set with answer keys. Serves as the fallback when AI generation
// fails and as the legacy answer key for non-instanced submissions.
type QuizDefinition struct {
	Title       string
	Description string
	TimeLimit   int // seconds
	Questions   []models.Question
}

// QuestionBank is the static Question-Set Provider. Pure lookup, no state.
type QuestionBank struct {
	quizzes map[string]QuizDefinition
	order   []string
}

func NewQuestionBank() *QuestionBank {
	return &QuestionBank{
		quizzes: staticQuizzes,
		order:   []string{"javascript", "databases", "react", "nodejs"},
	}
}

// Subjects lists the catalog in stable order.
func (b *QuestionBank) Subjects() []models.SubjectInfo {
	subjects := make([]models.SubjectInfo, 0, len(b.order))
	for _, id := range b.order {
		quiz := b.quizzes[id]
		subjects = append(subjects, models.SubjectInfo{
			ID:          id,
			Title:       quiz.Title,
			Description: quiz.Description,
			// AI generation targets a fixed count regardless of bank size.
			QuestionCount: generatedQuestionCount,
			TimeLimit:     quiz.TimeLimit,
		})
	}
	return subjects
}

// Get returns the static quiz for a subject.
func (b *QuestionBank) Get(subject string) (QuizDefinition, bool) {
	quiz, ok := b.quizzes[subject]
	return quiz, ok
}

// Has reports whether the subject is known.
func (b *QuestionBank) Has(subject string) bool {
	_, ok := b.quizzes[subject]
	return ok
}

// FindQuestion resolves a raw question id within a subject's static set.
// Used for legacy-fallback grading when no quiz instance is available.
func (b *QuestionBank) FindQuestion(subject, questionID string) (*models.Question, bool) {
	quiz, ok := b.quizzes[subject]
	if !ok {
		return nil, false
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == questionID {
			return &quiz.Questions[i], true
		}
	}
	return nil, false
}

// ShuffledQuestions returns a copy of the subject's questions in random
// order, for fallback quizzes.
func (b *QuestionBank) ShuffledQuestions(subject string) []models.Question {
	quiz, ok := b.quizzes[subject]
	if !ok {
		return nil
	}
	questions := make([]models.Question, len(quiz.Questions))
	copy(questions, quiz.Questions)
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	return questions
}

var staticQuizzes = map[string]QuizDefinition{
	"javascript": {
		Title:       "JavaScript",
		Description: "Test your knowledge of JavaScript fundamentals and modern features",
		TimeLimit:   600,
		Questions: []models.Question{
			{
				ID:            "js-1",
				Question:      "What does `typeof null` evaluate to?",
				Options:       []string{`"null"`, `"object"`, `"undefined"`, `"boolean"`},
				CorrectAnswer: 1,
				Explanation:   "typeof null returns \"object\", a historical quirk kept for backward compatibility.",
			},
			{
				ID:            "js-2",
				Question:      "Which declaration creates a block-scoped variable that cannot be reassigned?",
				Options:       []string{"var", "let", "const", "static"},
				CorrectAnswer: 2,
				Explanation:   "const is block-scoped and its binding cannot be reassigned after initialization.",
			},
			{
				ID:            "js-3",
				Question:      "What is the output of `[1, 2, 3].map(n => n * 2)`?",
				Options:       []string{"[1, 2, 3]", "[2, 4, 6]", "[1, 4, 9]", "undefined"},
				CorrectAnswer: 1,
				Explanation:   "map returns a new array with the callback applied to every element.",
			},
			{
				ID:            "js-4",
				Question:      "A closure is best described as:",
				Options:       []string{"A function bundled with its lexical scope", "An immediately invoked function", "A method bound to an object", "A loop inside a function"},
				CorrectAnswer: 0,
				Explanation:   "A closure is a function that retains access to variables from the scope in which it was defined.",
			},
			{
				ID:            "js-5",
				Question:      "Which statement about `await` is true?",
				Options:       []string{"It blocks the entire event loop", "It can only be used inside async functions or module top level", "It converts a value into a callback", "It cancels a pending promise"},
				CorrectAnswer: 1,
				Explanation:   "await suspends the surrounding async function without blocking the event loop.",
			},
		},
	},
	"databases": {
		Title:       "Databases",
		Description: "Assess your understanding of SQL, NoSQL, and data modeling concepts",
		TimeLimit:   600,
		Questions: []models.Question{
			{
				ID:            "db-1",
				Question:      "Which property is NOT part of ACID?",
				Options:       []string{"Atomicity", "Consistency", "Idempotency", "Durability"},
				CorrectAnswer: 2,
				Explanation:   "ACID stands for Atomicity, Consistency, Isolation, and Durability.",
			},
			{
				ID:            "db-2",
				Question:      "What is the primary purpose of a database index?",
				Options:       []string{"Enforce foreign keys", "Speed up read queries", "Compress table storage", "Validate data types"},
				CorrectAnswer: 1,
				Explanation:   "Indexes let the database locate rows without scanning the whole table.",
			},
			{
				ID:            "db-3",
				Question:      "In MongoDB, data is primarily stored as:",
				Options:       []string{"Rows in tables", "BSON documents in collections", "Key-value pairs only", "Column families"},
				CorrectAnswer: 1,
				Explanation:   "MongoDB stores BSON documents grouped into collections.",
			},
			{
				ID:            "db-4",
				Question:      "Third normal form (3NF) requires that:",
				Options:       []string{"Every table has a composite key", "Non-key attributes depend only on the key", "All queries use joins", "Tables contain no NULL values"},
				CorrectAnswer: 1,
				Explanation:   "3NF removes transitive dependencies so non-key attributes depend on nothing but the key.",
			},
			{
				ID:            "db-5",
				Question:      "Which JOIN returns all rows from the left table and matching rows from the right?",
				Options:       []string{"INNER JOIN", "LEFT JOIN", "CROSS JOIN", "FULL JOIN"},
				CorrectAnswer: 1,
				Explanation:   "LEFT JOIN keeps every left-table row, filling unmatched right-side columns with NULL.",
			},
		},
	},
	"react": {
		Title:       "React.js",
		Description: "Evaluate your React component, hook, and state management skills",
		TimeLimit:   600,
		Questions: []models.Question{
			{
				ID:            "react-1",
				Question:      "Which hook is used to run side effects after render?",
				Options:       []string{"useState", "useEffect", "useMemo", "useRef"},
				CorrectAnswer: 1,
				Explanation:   "useEffect schedules side effects to run after the component renders.",
			},
			{
				ID:            "react-2",
				Question:      "Props in React are:",
				Options:       []string{"Mutable within the child", "Read-only inputs passed from the parent", "Shared global state", "Only available in class components"},
				CorrectAnswer: 1,
				Explanation:   "Props flow one way from parent to child and must not be mutated by the child.",
			},
			{
				ID:            "react-3",
				Question:      "Calling a state setter from useState:",
				Options:       []string{"Mutates the state in place", "Schedules a re-render with the new state", "Re-renders all components on the page", "Is synchronous and immediate"},
				CorrectAnswer: 1,
				Explanation:   "State setters enqueue an update; React re-renders the component with the new value.",
			},
			{
				ID:            "react-4",
				Question:      "The key prop on list items exists to:",
				Options:       []string{"Style each item uniquely", "Help React match items across renders", "Sort the list automatically", "Pass data to children"},
				CorrectAnswer: 1,
				Explanation:   "Stable keys let the reconciler track which items changed, were added, or removed.",
			},
			{
				ID:            "react-5",
				Question:      "Context is most appropriate for:",
				Options:       []string{"High-frequency state updates", "Values needed by many components at different depths", "Replacing all props", "Server-side data fetching"},
				CorrectAnswer: 1,
				Explanation:   "Context avoids prop drilling for broadly shared values like themes or the current user.",
			},
		},
	},
	"nodejs": {
		Title:       "Node.js",
		Description: "Check your knowledge of the Node.js runtime and server-side patterns",
		TimeLimit:   600,
		Questions: []models.Question{
			{
				ID:            "node-1",
				Question:      "Node.js executes JavaScript using:",
				Options:       []string{"A thread per request", "A single-threaded event loop with a worker pool", "Green threads", "The browser DOM"},
				CorrectAnswer: 1,
				Explanation:   "Node runs the event loop on one thread and offloads blocking work to libuv's pool.",
			},
			{
				ID:            "node-2",
				Question:      "Which module system did Node.js support first?",
				Options:       []string{"ES modules", "CommonJS", "AMD", "SystemJS"},
				CorrectAnswer: 1,
				Explanation:   "CommonJS (require/module.exports) predates native ES module support in Node.",
			},
			{
				ID:            "node-3",
				Question:      "In Express, middleware functions receive:",
				Options:       []string{"(req, res, next)", "(err, data)", "(ctx)", "(request) only"},
				CorrectAnswer: 0,
				Explanation:   "Express middleware signature is (req, res, next); calling next passes control onward.",
			},
			{
				ID:            "node-4",
				Question:      "Streams are preferable to fs.readFile when:",
				Options:       []string{"The file is small", "Data should be processed incrementally without loading it all in memory", "You need synchronous reads", "The file is JSON"},
				CorrectAnswer: 1,
				Explanation:   "Streams process chunks as they arrive, keeping memory usage flat for large inputs.",
			},
			{
				ID:            "node-5",
				Question:      "process.nextTick callbacks run:",
				Options:       []string{"After setTimeout callbacks", "Before the event loop continues to the next phase", "In a separate thread", "Only on process exit"},
				CorrectAnswer: 1,
				Explanation:   "nextTick callbacks drain before the event loop proceeds, ahead of timers and I/O.",
			},
		},
	},
}
