// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"context"
	"fmt"
	"os"
	"strings"

	stsv2 "github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/tidwall/gjson"

	"github.com/tfboot/tfboot/internal/log"
)

// CallerIdentityAPI is the slice of the STS client the resolver needs.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *stsv2.GetCallerIdentityInput, optFns ...func(*stsv2.Options)) (*stsv2.GetCallerIdentityOutput, error)
}

// ConfigError marks a failure to resolve mandatory configuration (app name,
// credentials). Commands map it to exit code 2 and attempt no side effects.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Identity is the resolved naming context every backend operation hangs off
// of. All fields are deterministic for a given (app, env, account) triple.
type Identity struct {
	AppName       string
	SafeAppKey    string
	AccountID     string
	ParameterName string
}

// SafeKey builds the collision-resistant identifier used to namespace cloud
// resources: lowercase(app + env). Stable across runs for the same inputs.
func SafeKey(appName, env string) string {
	return strings.ToLower(appName + env)
}

// ParameterName derives the SSM parameter name holding the backend descriptor
// for one (account, app, env) triple. Pure function, no side effects.
func ParameterName(accountID, safeKey string) string {
	return fmt.Sprintf("/terraform/backend/%s-%s", accountID, safeKey)
}

// DefaultBucketName synthesizes the fallback bucket name used when neither an
// override nor a bootstrap output variable provides one.
func DefaultBucketName(accountID, safeKey string) string {
	return fmt.Sprintf("%s-%s-tfstate", accountID, safeKey)
}

// PropertiesFile returns the conventional per-environment properties filename.
func PropertiesFile(env string) string {
	return fmt.Sprintf("properties.%s.json", env)
}

// Resolve determines the app name (explicit override, else the app_name field
// of properties.<env>.json in the CWD), then asks STS for the caller's account
// id. Both are mandatory; failure of either is a ConfigError. Must run before
// any operation that needs the parameter name.
func Resolve(ctx context.Context, api CallerIdentityAPI, env, appNameOverride string) (Identity, error) {
	log.Debugf("resolving identity: env=%s, override=%s", env, appNameOverride)

	appName := appNameOverride
	if appName == "" {
		appName = appNameFromProperties(env)
	}
	if appName == "" {
		return Identity{}, &ConfigError{
			Msg: fmt.Sprintf("unable to determine app name. Ensure %s exists and contains an 'app_name' field, or provide --app-name", PropertiesFile(env)),
		}
	}

	safeKey := SafeKey(appName, env)

	out, err := api.GetCallerIdentity(ctx, &stsv2.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, &ConfigError{
			Msg: "unable to determine AWS account id. Ensure AWS credentials are configured",
			Err: err,
		}
	}
	var accountID string
	if out.Account != nil {
		accountID = *out.Account
	}
	if accountID == "" {
		return Identity{}, &ConfigError{
			Msg: "unable to determine AWS account id. Ensure AWS credentials are configured",
		}
	}

	id := Identity{
		AppName:       appName,
		SafeAppKey:    safeKey,
		AccountID:     accountID,
		ParameterName: ParameterName(accountID, safeKey),
	}
	log.Debugf("identity resolved: app=%s, safeKey=%s, account=%s, param=%s",
		id.AppName, id.SafeAppKey, id.AccountID, id.ParameterName)
	return id, nil
}

// appNameFromProperties reads properties.<env>.json and extracts app_name.
// Any read or parse problem yields "" so the caller can produce the single
// canonical ConfigError.
func appNameFromProperties(env string) string {
	raw, err := os.ReadFile(PropertiesFile(env))
	if err != nil {
		log.Debugf("properties read err: err=%v", err)
		return ""
	}
	return gjson.GetBytes(raw, "app_name").String()
}
