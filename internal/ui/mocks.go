package ui

import "fmt"

// MockPrompter implements Prompter with canned answers, consumed in order.
type MockPrompter struct {
	Answers  []string
	Confirms []bool
	Err      error

	Asked []string
}

// Required returns the next answer.
func (m *MockPrompter) Required(label string) (string, error) {
	m.Asked = append(m.Asked, label)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Answers) == 0 {
		return "", fmt.Errorf("no answer queued for %q", label)
	}
	answer := m.Answers[0]
	m.Answers = m.Answers[1:]
	return answer, nil
}

// Optional returns the next answer, or def when none is queued.
func (m *MockPrompter) Optional(label, def string) (string, error) {
	m.Asked = append(m.Asked, label)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Answers) == 0 {
		return def, nil
	}
	answer := m.Answers[0]
	m.Answers = m.Answers[1:]
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm returns the next queued confirmation, or def when none is queued.
func (m *MockPrompter) Confirm(label string, def bool) (bool, error) {
	m.Asked = append(m.Asked, label)
	if m.Err != nil {
		return false, m.Err
	}
	if len(m.Confirms) == 0 {
		return def, nil
	}
	answer := m.Confirms[0]
	m.Confirms = m.Confirms[1:]
	return answer, nil
}

// ConfirmOrAbort behaves like Confirm.
func (m *MockPrompter) ConfirmOrAbort(label string, def bool) (bool, error) {
	return m.Confirm(label, def)
}
