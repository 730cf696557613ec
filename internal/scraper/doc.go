// Package scraper provides HTTP fetching for nytbee.com puzzle pages and
// their honeycomb images.
//
// Every request carries a browser-like User-Agent because the site rejects
// default client identifiers. A non-200 response is reported as a
// *StatusError so the batch driver can log the date and move on; nothing is
// retried.
package scraper
