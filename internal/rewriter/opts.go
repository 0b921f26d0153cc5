package rewriter

import "time"

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(client *Client) {
		if baseURL == "" {
			return
		}

		client.httpc.SetBaseURL(baseURL)
	}
}

func WithBasicAuth(login, password string) Option {
	return func(client *Client) {
		client.httpc.SetBasicAuth(login, password)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		client.httpc.SetTimeout(timeout)
	}
}

func WithDebug(verbose bool) Option {
	return func(client *Client) {
		client.httpc.SetDebug(verbose)
	}
}
