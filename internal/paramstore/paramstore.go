// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package paramstore

import (
	"context"
	"errors"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	ssmv2 "github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"github.com/tfboot/tfboot/internal/log"
)

// ParameterAPI is the slice of the SSM client the store needs.
type ParameterAPI interface {
	GetParameter(ctx context.Context, params *ssmv2.GetParameterInput, optFns ...func(*ssmv2.Options)) (*ssmv2.GetParameterOutput, error)
	PutParameter(ctx context.Context, params *ssmv2.PutParameterInput, optFns ...func(*ssmv2.Options)) (*ssmv2.PutParameterOutput, error)
	DeleteParameter(ctx context.Context, params *ssmv2.DeleteParameterInput, optFns ...func(*ssmv2.Options)) (*ssmv2.DeleteParameterOutput, error)
}

// Store reads and writes the single backend-descriptor parameter for one
// (account, app, env) triple.
type Store struct {
	api  ParameterAPI
	name string
}

// New returns a Store bound to the given parameter name.
func New(api ParameterAPI, name string) *Store {
	return &Store{api: api, name: name}
}

// Name returns the bound parameter name.
func (s *Store) Name() string { return s.name }

// Get returns the stored descriptor, or "" when the parameter does not exist.
// Any other failure is logged and also yields "": the conservative outcome is
// a re-bootstrap, not a crash.
func (s *Store) Get(ctx context.Context) string {
	out, err := s.api.GetParameter(ctx, &ssmv2.GetParameterInput{
		Name:           awsv2.String(s.name),
		WithDecryption: awsv2.Bool(true),
	})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			log.Debugf("parameter absent: name=%s", s.name)
			return ""
		}
		log.Errorf("SSM get_parameter failed: %v", err)
		return ""
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return ""
	}
	return *out.Parameter.Value
}

// Put creates or replaces the descriptor. Callers treat an error as fatal;
// everything downstream depends on the persisted value.
func (s *Store) Put(ctx context.Context, value string) error {
	_, err := s.api.PutParameter(ctx, &ssmv2.PutParameterInput{
		Name:      awsv2.String(s.name),
		Value:     awsv2.String(value),
		Type:      ssmtypes.ParameterTypeString,
		Overwrite: awsv2.Bool(true),
	})
	if err != nil {
		log.Errorf("failed to put SSM parameter %s: %v", s.name, err)
		return err
	}
	log.Debugf("parameter stored: name=%s, bytes=%d", s.name, len(value))
	return nil
}

// Delete removes the descriptor. Best-effort: teardown must proceed whether
// or not the parameter still exists, so failure is only logged.
func (s *Store) Delete(ctx context.Context) {
	log.Infof("Deleting SSM parameter %s", s.name)
	if _, err := s.api.DeleteParameter(ctx, &ssmv2.DeleteParameterInput{
		Name: awsv2.String(s.name),
	}); err != nil {
		log.Infof("SSM parameter %s not found or could not be deleted: %v", s.name, err)
		return
	}
	log.Infof("Deleted SSM parameter %s", s.name)
}
