package dto

type SettingsOutput struct {
	ShortBreakMinutes    int
	LongBreakMinutes     int
	FlowsBeforeLongBreak int
}

type SaveInput struct {
	ShortBreakMinutes    int
	LongBreakMinutes     int
	FlowsBeforeLongBreak int
}
