package eventbus

type GenerationEventType string

const (
	GenerationEventProgress  GenerationEventType = "Progress"
	GenerationEventCompleted GenerationEventType = "Completed"
	GenerationEventFailed    GenerationEventType = "Failed"
	GenerationEventCancelled GenerationEventType = "Cancelled"
)

type GenerationEvent struct {
	Type        GenerationEventType
	RunID       string
	PitchbookID uint
	Current     int
	Total       int
	Percentage  int
	Error       string
}

type GenerationEventHandler = Handler[GenerationEvent]
type GenerationEventBus = Bus[GenerationEventType, GenerationEvent]

func NewGenerationEventBus() *GenerationEventBus {
	return NewBus[GenerationEventType, GenerationEvent]()
}
