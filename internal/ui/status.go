package ui

// StatusLine is a message that disappears after a number of frames
type StatusLine struct {
	message string
	frames  int
}

// Show replaces the current message
func (s *StatusLine) Show(message string, frames int) {
	s.message = message
	s.frames = frames
}

// Step counts one frame down and clears the message when it expires
func (s *StatusLine) Step() {
	if s.frames <= 0 {
		return
	}
	s.frames--
	if s.frames == 0 {
		s.message = ""
	}
}

func (s *StatusLine) Message() string { return s.message }
