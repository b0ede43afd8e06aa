// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package templatetest

import "github.com/stretchr/testify/mock"

// MockSerializer is a testify mock for serializers.
type MockSerializer struct {
	mock.Mock
}

// Serialize has the serializer signature; pass the method value where a
// serializer is wanted.
func (m *MockSerializer) Serialize(v any) (string, error) {
	args := m.Called(v)
	return args.String(0), args.Error(1)
}
