package mainconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appconfig "github.com/wolfman30/inkstudio-ai/internal/config"
)

func TestLoadAWSConfigSkippedWhenNotNeeded(t *testing.T) {
	awsCfg, err := LoadAWSConfig(context.Background(), &appconfig.Config{AWSRegion: "us-east-1"}, false)
	require.NoError(t, err)
	assert.Nil(t, awsCfg)
}

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:          "us-west-2",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "secret",
	}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg, true)
	require.NoError(t, err)
	require.NotNil(t, awsCfg)
	assert.Equal(t, "us-west-2", awsCfg.Region)
	assert.Equal(t, appID, awsCfg.AppID)

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}
