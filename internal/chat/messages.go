package chat

// Messages holds every user-facing reply. QuizReady takes the link as its
// only format argument.
type Messages struct {
	Greeting          string
	ConfirmLecture    string
	ConfirmPDF        string
	ConfirmButton     string
	Cancelled         string
	Generating        string
	QuizReady         string
	OpenQuiz          string
	ProcessingPDF     string
	PDFTooLittleText  string
	PDFFailed         string
	PDFTooLarge       string
	OnlyPDF           string
	SourceTooShort    string
	GenerationTimeout string
	GenerationFailed  string
	CouldNotBuild     string
	ServerError       string
	Started           string
}

func DefaultMessages() Messages {
	return Messages{
		Greeting:          "Hello! Send me the lecture you want a quiz for, as text or as a PDF file.",
		ConfirmLecture:    "Do you want to create a quiz from this lecture?",
		ConfirmPDF:        "I extracted the text from your PDF. Do you want to create a quiz from it?",
		ConfirmButton:     "🔹 Create quiz",
		Cancelled:         "Cancelled. Send the lecture again whenever you want a quiz.",
		Generating:        "Creating your quiz...",
		QuizReady:         "Here is the link to your quiz:\n%s",
		OpenQuiz:          "Open quiz",
		ProcessingPDF:     "Processing your PDF...",
		PDFTooLittleText:  "Sorry, I could not extract enough text from this PDF.",
		PDFFailed:         "Something went wrong while reading the PDF. Make sure the file is valid and contains selectable text.",
		PDFTooLarge:       "This PDF is larger than 20 MB, which is the most I can download. Please send a smaller file or paste the text.",
		OnlyPDF:           "Only PDF documents are supported. You can also paste the lecture as text.",
		SourceTooShort:    "The lecture is too short to build a quiz. Please send a longer text.",
		GenerationTimeout: "The quiz generator took too long to answer. Please send the lecture again.",
		GenerationFailed:  "The quiz generator is unavailable right now. Please try again in a moment.",
		CouldNotBuild:     "I could not build a quiz from this lecture. Please try again.",
		ServerError:       "Server error, please try again later.",
		Started:           "👋 The bot is up and ready to receive lectures.",
	}
}
