// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package directives

import (
	"testing"

	"github.com/EngFlow/ccfront/internal/cc/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionalStackSimpleIf(t *testing.T) {
	s := NewConditionalStack()
	assert.True(t, s.EmitEnabled())

	s.PushIf(If, true, source.Zero)
	assert.True(t, s.EmitEnabled())

	_, err := s.Pop()
	require.NoError(t, err)
	assert.True(t, s.EmitEnabled())
}

func TestConditionalStackFalseIfSuppressesEmission(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, false, source.Zero)
	assert.False(t, s.EmitEnabled())
}

func TestConditionalStackNestingIsAnAcrossFrames(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, true, source.Zero)
	s.PushIf(If, false, source.Zero)
	assert.False(t, s.EmitEnabled())

	s.PushIf(If, true, source.Zero)
	assert.False(t, s.EmitEnabled(), "an inactive ancestor keeps the whole stack suppressed")
}

func TestConditionalStackElifFiresOnlyWhenNoEarlierBranchTaken(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, false, source.Zero)
	assert.False(t, s.EmitEnabled())

	require.NoError(t, s.Elif(true))
	assert.True(t, s.EmitEnabled())

	require.NoError(t, s.Elif(true))
	assert.False(t, s.EmitEnabled(), "a later #elif is forced inactive once an earlier branch already fired")
}

func TestConditionalStackElseFiresOnlyWhenNoBranchTaken(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, true, source.Zero)
	require.NoError(t, s.Else())
	assert.False(t, s.EmitEnabled())
}

func TestConditionalStackElseAfterFalseIf(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, false, source.Zero)
	require.NoError(t, s.Else())
	assert.True(t, s.EmitEnabled())
}

func TestConditionalStackDuplicateElseErrors(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, false, source.Zero)
	require.NoError(t, s.Else())
	assert.Error(t, s.Else())
}

func TestConditionalStackElifAfterElseErrors(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, false, source.Zero)
	require.NoError(t, s.Else())
	assert.Error(t, s.Elif(true))
}

func TestConditionalStackPopWithoutPushErrors(t *testing.T) {
	s := NewConditionalStack()
	_, err := s.Pop()
	assert.Error(t, err)
}

func TestConditionalStackElifWithoutIfErrors(t *testing.T) {
	s := NewConditionalStack()
	assert.Error(t, s.Elif(true))
}

func TestConditionalStackDepth(t *testing.T) {
	s := NewConditionalStack()
	assert.Equal(t, 0, s.Depth())
	s.PushIf(If, true, source.Zero)
	s.PushIf(If, true, source.Zero)
	assert.Equal(t, 2, s.Depth())
	_, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Depth())
}

func TestShouldEvaluateBranchFalseWhenEarlierBranchAlreadyTaken(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, true, source.Zero)
	should, err := s.ShouldEvaluateBranch()
	require.NoError(t, err)
	assert.False(t, should, "the taken #if already decided this level; #elif's condition is moot")
}

func TestShouldEvaluateBranchTrueWhenStillUndecided(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, false, source.Zero)
	should, err := s.ShouldEvaluateBranch()
	require.NoError(t, err)
	assert.True(t, should)
}

func TestShouldEvaluateBranchFalseWhenAncestorInactive(t *testing.T) {
	s := NewConditionalStack()
	s.PushIf(If, false, source.Zero)
	s.PushIf(If, false, source.Zero)
	should, err := s.ShouldEvaluateBranch()
	require.NoError(t, err)
	assert.False(t, should, "the outer frame is already inactive, so this level's result can't matter")
}

func TestShouldEvaluateBranchErrorsWithoutOpenFrame(t *testing.T) {
	s := NewConditionalStack()
	_, err := s.ShouldEvaluateBranch()
	assert.Error(t, err)
}
