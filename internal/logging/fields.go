package logging

import "github.com/sirupsen/logrus"

// BaseFields builds the action + cache root fields shared by every entry point.
func BaseFields(action, root string) logrus.Fields {
	return logrus.Fields{
		"action": action,
		"root":   root,
	}
}
